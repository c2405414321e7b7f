package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sanitizer turns client-supplied path strings into absolute, normalized host paths.
// When a root is configured every result must stay inside it.
type Sanitizer struct {
	root string
	// resolved is root with symbolic links resolved
	resolved string
}

// NewSanitizer creates a sanitizer. An empty root leaves the whole host filesystem reachable.
func NewSanitizer(root string) (*Sanitizer, error) {
	if root == "" {
		return &Sanitizer{}, nil
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, newOpError(OpSanitize, root, KindInvalidPath, err)
	}
	abs = filepath.Clean(abs)
	return &Sanitizer{root: abs, resolved: resolvePath(abs)}, nil
}

// Root returns the confinement root, or "" when unconfined
func (s *Sanitizer) Root() string {
	return s.root
}

// Confined reports whether a root is configured
func (s *Sanitizer) Confined() bool {
	return s.root != ""
}

// Sanitize resolves input to an absolute path with no "." or ".." segments.
// A bare drive letter such as "D:" becomes the drive root "D:\" on Windows.
// Relative input resolves against the root when confined, the working directory otherwise.
// When confined, symbolic links along the path must not lead outside the root either.
func (s *Sanitizer) Sanitize(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", newOpError(OpSanitize, input, KindInvalidPath, ErrEmptyPath)
	}
	if strings.ContainsRune(input, 0) {
		return "", newOpError(OpSanitize, input, KindInvalidPath, ErrInvalidName)
	}

	p := input
	if isBareDrive(p) {
		p = p + string(os.PathSeparator)
	}
	if s.root != "" && !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", newOpError(OpSanitize, input, KindInvalidPath, err)
	}
	if !s.Contains(abs) {
		return "", newOpError(OpSanitize, input, KindAccessDenied, ErrPathEscapesRoot)
	}
	return abs, nil
}

// Contains reports whether p lies inside the root, both as written and with
// symbolic links resolved. Always true when unconfined.
func (s *Sanitizer) Contains(p string) bool {
	return s.root == "" || (within(s.root, p) && within(s.resolved, resolvePath(p)))
}

// ValidateName checks that name can be joined onto a directory as exactly one element.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "",
		name == ".", name == "..",
		strings.ContainsRune(name, 0),
		strings.ContainsAny(name, `/\`),
		filepath.Base(name) != name,
		filepath.VolumeName(name) != "":
		return newOpError(OpCreate, name, KindInvalidPath, ErrInvalidName)
	}
	return nil
}

// within reports whether p equals base or lies below it. Both must be clean absolute paths.
func within(base, p string) bool {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// maxLinkHops bounds how many dangling links resolvePath follows by hand
const maxLinkHops = 40

// resolvePath returns p with every symbolic link resolved. Trailing elements
// that do not exist yet are kept as written on top of the deepest existing
// ancestor. Dangling links are followed to where they would create their target.
func resolvePath(p string) string {
	cur := filepath.Clean(p)
	var tail []string
	hops := 0
	for {
		if resolved, err := filepath.EvalSymlinks(cur); err == nil {
			return joinTail(resolved, tail)
		}
		if hops < maxLinkHops {
			if info, err := os.Lstat(cur); err == nil && info.Mode()&fs.ModeSymlink != 0 {
				if target, err := os.Readlink(cur); err == nil {
					if !filepath.IsAbs(target) {
						target = filepath.Join(filepath.Dir(cur), target)
					}
					cur = filepath.Clean(target)
					hops++
					continue
				}
			}
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return joinTail(cur, tail)
		}
		tail = append(tail, filepath.Base(cur))
		cur = parent
	}
}

// resolveEntry resolves the links leading to p but not p itself, matching
// operations that act on a link rather than what it points to.
func resolveEntry(p string) string {
	dir, base := filepath.Split(filepath.Clean(p))
	if base == "" {
		return resolvePath(p)
	}
	return filepath.Join(resolvePath(dir), base)
}

// joinTail puts back the elements resolvePath collected, deepest first, onto base
func joinTail(base string, tail []string) string {
	for i := len(tail) - 1; i >= 0; i-- {
		base = filepath.Join(base, tail[i])
	}
	return base
}

// isStrictlyWithin reports whether p lies below base and is not base itself
func isStrictlyWithin(base, p string) bool {
	return base != p && within(base, p)
}

// isVolumeRoot reports whether p is a filesystem root such as "/" or "C:\"
func isVolumeRoot(p string) bool {
	return filepath.Dir(p) == p
}

func isBareDrive(p string) bool {
	if filepath.Separator != '\\' || len(p) != 2 || p[1] != ':' {
		return false
	}
	c := p[0] | 0x20
	return c >= 'a' && c <= 'z'
}
