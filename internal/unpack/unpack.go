// Package unpack performs the one-time extraction of the bundled dependency
// archive.
//
// Completion is keyed purely on the destination directory existing. No
// marker file is written, so a destination left behind by a crash in the
// middle of an extraction is indistinguishable from a finished one and is
// not repaired; deleting the directory forces a fresh extraction.
package unpack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/klauspost/compress/zip"

	"launchpad/internal/procattr"
	"launchpad/pkg/logging"
)

// Outcome tells what EnsureUnpacked did.
type Outcome int

const (
	OutcomeNoArchive Outcome = iota
	OutcomeAlreadyExtracted
	OutcomeNative
	OutcomeFallback
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoArchive:
		return "no-archive"
	case OutcomeAlreadyExtracted:
		return "already-extracted"
	case OutcomeNative:
		return "native"
	case OutcomeFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// DefaultProgressEvery is how many entries the fallback extracts between
// progress messages.
const DefaultProgressEvery = 500

// Reporter receives progress. SetMessage replaces the current status message
// and AddLog appends a log line.
type Reporter interface {
	AddLog(msg string)
	SetMessage(msg string)
}

// Unpacker extracts an archive once.
type Unpacker struct {
	// NativeTool is the external extraction command. "{archive}" and
	// "{dest}" are substituted in every argument. Empty skips straight to
	// the built-in extractor.
	NativeTool    []string
	ProgressEvery int
	HideWindow    bool

	reporter Reporter
}

// New creates an Unpacker using the platform's native extraction tool.
func New(reporter Reporter) *Unpacker {
	return &Unpacker{
		NativeTool:    DefaultNativeTool(runtime.GOOS),
		ProgressEvery: DefaultProgressEvery,
		reporter:      reporter,
	}
}

// DefaultNativeTool returns the extraction command used on goos.
func DefaultNativeTool(goos string) []string {
	if goos == "windows" {
		// Expand-Archive is several times faster than the built-in reader for
		// archives holding thousands of small files.
		return []string{
			"powershell", "-NoProfile", "-NonInteractive", "-Command",
			"Expand-Archive -Path '{archive}' -DestinationPath '{dest}' -Force",
		}
	}
	return []string{"unzip", "-q", "-o", "{archive}", "-d", "{dest}"}
}

// EnsureUnpacked extracts archive into dest unless the archive is absent or
// dest already exists.
func (u *Unpacker) EnsureUnpacked(ctx context.Context, archive, dest string) (Outcome, error) {
	name := filepath.Base(archive)
	if _, err := os.Stat(archive); err != nil {
		u.log("%s not found, running in dev mode", name)
		return OutcomeNoArchive, nil
	}
	if _, err := os.Stat(dest); err == nil {
		u.log("%s already extracted, skipping", name)
		return OutcomeAlreadyExtracted, nil
	}

	u.message("First launch: extracting dependencies (~30s)...")

	if len(u.NativeTool) > 0 {
		tool := filepath.Base(u.NativeTool[0])
		exitCode, err := u.runNative(ctx, archive, dest)
		switch {
		case err != nil:
			u.log("%s unavailable (%v), using built-in extractor", tool, err)
		case exitCode != 0:
			u.log("%s exited %d, falling back to built-in extractor", tool, exitCode)
		default:
			u.log("✓ %s extracted via %s", name, tool)
			return OutcomeNative, nil
		}
	}

	if err := u.extract(ctx, archive, dest); err != nil {
		u.log("⚠ Extraction failed: %v", err)
		return OutcomeFallback, fmt.Errorf("extract %s: %w", archive, err)
	}
	u.log("✓ %s extracted", name)
	return OutcomeFallback, nil
}

// runNative returns the tool's exit code, or an error when it could not be
// launched at all.
func (u *Unpacker) runNative(ctx context.Context, archive, dest string) (int, error) {
	argv := make([]string, len(u.NativeTool))
	r := strings.NewReplacer("{archive}", archive, "{dest}", dest)
	for i, a := range u.NativeTool {
		argv[i] = r.Replace(a)
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	procattr.Apply(cmd, procattr.Options{HideWindow: u.HideWindow})
	out, err := cmd.CombinedOutput()
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			logging.Debug("Unpack", "%s output: %s", argv[0], strings.TrimSpace(string(out)))
			return ee.ExitCode(), nil
		}
		return -1, err
	}
	return 0, nil
}

// extract streams every entry of archive to disk below dest.
func (u *Unpacker) extract(ctx context.Context, archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer zr.Close()

	every := u.ProgressEvery
	if every <= 0 {
		every = DefaultProgressEvery
	}
	total := len(zr.File)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for i, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		target, ok := entryTarget(dest, f.Name)
		if !ok {
			logging.Warn("Unpack", "Skipping entry outside destination: %q", f.Name)
			continue
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		} else if err := writeEntry(f, target); err != nil {
			return err
		}

		if i > 0 && i%every == 0 {
			u.message(fmt.Sprintf("Extracting dependencies... (%d/%d files)", i, total))
		}
	}
	return nil
}

// entryTarget maps an archive entry name below dest. Absolute names and names
// escaping dest are rejected.
func entryTarget(dest, name string) (string, bool) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", false
	}
	return filepath.Join(dest, rel), true
}

func writeEntry(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

func (u *Unpacker) log(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if u.reporter != nil {
		u.reporter.AddLog(msg)
		return
	}
	logging.Info("Unpack", "%s", msg)
}

func (u *Unpacker) message(msg string) {
	if u.reporter != nil {
		u.reporter.SetMessage(msg)
		return
	}
	logging.Info("Unpack", "%s", msg)
}
