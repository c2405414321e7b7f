package services

import (
	"os"
	"path/filepath"
	"testing"

	"fileweb/internal/models"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyChanged(event models.ChangeEvent) {
	m.Called(event)
}

// expectChange registers one expected event with the given op
func (m *mockNotifier) expectChange(op string) *mock.Call {
	return m.On("NotifyChanged", mock.MatchedBy(func(e models.ChangeEvent) bool {
		return e.Op == op && e.ID != "" && e.Message == ChangeMessage
	})).Once()
}

// newTestExplorer returns an explorer confined to a fresh temp dir, with home set to root/home
func newTestExplorer(t *testing.T) (*Explorer, *mockNotifier, string) {
	t.Helper()

	root := t.TempDir()
	sanitizer, err := NewSanitizer(root)
	require.NoError(t, err)

	home := filepath.Join(root, "home")
	require.NoError(t, os.Mkdir(home, 0o755))

	locations := NewLocations(root)
	locations.home = func() (string, error) { return home, nil }

	notifier := &mockNotifier{}
	e := NewExplorer(ExplorerOptions{
		Sanitizer: sanitizer,
		Locations: locations,
		Notifier:  notifier,
	})
	return e, notifier, sanitizer.Root()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func skipIfPrivileged(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}
