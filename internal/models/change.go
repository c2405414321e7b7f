package models

import "time"

// Change operations carried by ChangeEvent.Op
const (
	ChangeCreate = "create"
	ChangeDelete = "delete"
	ChangeRename = "rename"
	ChangeCopy   = "copy"
	ChangeMove   = "move"
	ChangePaste  = "paste"
	ChangeClient = "client"
)

// ChangeEvent tells live clients that something on disk changed and they should re-fetch
type ChangeEvent struct {
	ID        string    `json:"id"`
	Op        string    `json:"op"`
	Paths     []string  `json:"paths,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
