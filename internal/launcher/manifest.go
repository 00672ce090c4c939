package launcher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mholt/archives"
)

// reservedPrefixes enumerates the archive paths classified away from the
// bundle before the remainder is interpreted as "<name>.app/...", in the
// order spec.md §4.C evaluates them. First match wins.
var reservedPrefixes = []string{
	"puisne/",
	".args",
	".cosmo",
	"usr/share/zoneinfo/",
}

func isReserved(name string) bool {
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// ManifestEntry is one non-reserved archive member, path-relative to the
// discovered "<name>.app/" root.
type ManifestEntry struct {
	RelativePath string
	Mode         os.FileMode
	MTime        time.Time
	IsDir        bool

	// open streams this member's bytes; nil for directory entries.
	open func() (io.ReadCloser, error)
}

// Open streams this entry's content. Callers must Close the result.
func (e *ManifestEntry) Open() (io.ReadCloser, error) {
	if e.open == nil {
		return nil, fmt.Errorf("entry %q has no content (directory)", e.RelativePath)
	}
	return e.open()
}

// Manifest is the ordered, read-only result of walking the embedded
// archive: the discovered bundle name plus its non-reserved members, in
// central-directory order. It is constructed once and then only read:
// by the extractor (Entries) and by Run's defaults and hand-off (Name).
// The namespace overlayer does not use it.
type Manifest struct {
	Name    string
	Entries []ManifestEntry

	// HelpText, ArgsFile and Version are the raw contents of the reserved
	// top-level files a bundle may carry, captured during the same
	// archive walk since they would otherwise be discarded by isReserved.
	HelpText    string
	HasHelpText bool
	ArgsFile    string
	HasArgsFile bool
	Version     string
	HasVersion  bool
}

// errEmptyBundle signals the "no <name>.app/ directory found" case, which
// spec.md §4.C treats as success (print guidance + help, exit 0), not as
// an archive-structure error.
var errEmptyBundle = fmt.Errorf("empty bundle")

// buildManifest walks the ZIP central directory appended to selfPath. The
// format is known in advance (it is always a ZIP, per spec.md §6), so the
// archives.Zip extractor is driven directly rather than through
// archives.Identify's format-sniffing path: sniffing by leading magic
// bytes would see the launcher stub's own header, not "PK\x03\x04". The
// underlying STARRY-S/zip reader locates the end-of-central-directory
// record by scanning backward from the end of the file instead, which is
// what makes a stub-prefixed ZIP openable at all (the same property
// ordinary self-extracting ZIPs rely on).
func buildManifest(ctx context.Context, selfPath string) (*Manifest, error) {
	f, err := os.Open(selfPath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	var (
		z       archives.Zip
		appName string
		entries []ManifestEntry
		m       = &Manifest{}
	)

	handler := func(_ context.Context, fi archives.FileInfo) error {
		name := fi.NameInArchive

		switch name {
		case "puisne/help.txt":
			content, err := readAll(fi)
			if err != nil {
				return fmt.Errorf("read help text: %w", err)
			}
			m.HelpText, m.HasHelpText = content, true
			return nil
		case ".args":
			content, err := readAll(fi)
			if err != nil {
				return fmt.Errorf("read .args: %w", err)
			}
			m.ArgsFile, m.HasArgsFile = content, true
			return nil
		case "puisne/version.txt":
			content, err := readAll(fi)
			if err != nil {
				return fmt.Errorf("read version.txt: %w", err)
			}
			m.Version, m.HasVersion = strings.TrimSpace(content), true
			return nil
		}

		if isReserved(name) {
			return nil
		}

		head, tail, found := strings.Cut(name, "/")
		if !found {
			return fmt.Errorf("top level file %q is not inside a <name>.app/ directory", name)
		}
		if head == "" {
			return fmt.Errorf("empty top level path component in %q", name)
		}
		if !strings.HasSuffix(head, ".app") {
			return fmt.Errorf("top level directory %q does not end in .app", head)
		}

		candidate := strings.TrimSuffix(head, ".app")
		if candidate == "" {
			return fmt.Errorf("empty app name (bare .app/ directory)")
		}
		if appName == "" {
			appName = candidate
		} else if appName != candidate {
			return fmt.Errorf("multiple top level app folders: %q and %q", appName, candidate)
		}

		if tail == "" {
			// Bare "<name>.app/" directory entry for the root itself; not a
			// manifest member on its own.
			return nil
		}

		entry := ManifestEntry{
			RelativePath: tail,
			Mode:         fi.Mode(),
			MTime:        fi.ModTime(),
			IsDir:        fi.IsDir(),
		}
		if !entry.IsDir {
			entry.open = fi.Open
		}
		entries = append(entries, entry)
		return nil
	}

	if err := z.Extract(ctx, f, handler); err != nil {
		return nil, fmt.Errorf("walk archive: %w", err)
	}

	if appName == "" {
		return nil, errEmptyBundle
	}

	m.Name = appName
	m.Entries = entries
	return m, nil
}

// readAll drains an archive member's content into memory. Only used for
// the reserved files expected to be small (help text, defaults file,
// version string); bundle member extraction in extract.go streams instead.
func readAll(fi archives.FileInfo) (string, error) {
	rc, err := fi.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
