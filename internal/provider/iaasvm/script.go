package iaasvm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/rsbctl/internal/backup"
)

const (
	passwordLength = 15
	maxNameTries   = 100
)

var unsafeNameChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "_", "<", "_", ">", "_", "|", "_", ";", "_", " ", "_",
)

// checkDir verifies that dir is an existing directory we can create files in.
func checkDir(dir string) error {
	fi, err := os.Stat(dir)
	if err != nil {
		return &backup.LocalIOError{Op: "stat", Path: dir, Err: err}
	}
	if !fi.IsDir() {
		return &backup.LocalIOError{Op: "stat", Path: dir, Err: errors.New("not a directory")}
	}
	f, err := os.CreateTemp(dir, ".rsbctl-*")
	if err != nil {
		return &backup.LocalIOError{Op: "stat", Path: dir, Err: err}
	}
	name := f.Name()
	_ = f.Close()
	if err := os.Remove(name); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("failed to remove write check file")
	}
	return nil
}

// scriptPassword is the trailing part of the script name suffix.
func scriptPassword(s backup.ClientScript) string {
	suffix := []rune(strings.TrimSpace(s.NameSuffix))
	if len(suffix) <= passwordLength {
		return string(suffix)
	}
	return string(suffix[len(suffix)-passwordLength:])
}

// writeArtifact stores the script under "<item>_<timestamp>_<suffix><ext>".
// The file is removed if anything fails after it was created.
func (p *Provider) writeArtifact(ctx context.Context, dir, item string, s backup.ClientScript) (_ string, err error) {
	base := fmt.Sprintf("%s_%s", unsafeNameChars.Replace(item), p.now().UTC().Format("20060102150405"))
	if suffix := strings.TrimSpace(s.NameSuffix); suffix != "" {
		base += "_" + unsafeNameChars.Replace(suffix)
	}
	ext := strings.TrimSpace(s.Extension)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	f, path, err := createExclusive(dir, base, ext)
	if err != nil {
		return "", &backup.LocalIOError{Op: "create", Path: path, Err: err}
	}
	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
				log.Warn().Err(rerr).Str("file", path).Msg("failed to remove partial mount script")
			}
		}
	}()

	switch {
	case s.ScriptContent != "":
		data, derr := base64.StdEncoding.DecodeString(s.ScriptContent)
		if derr != nil {
			return "", &backup.RemoteOperationError{Op: "decode client script", Err: derr}
		}
		if _, werr := f.Write(data); werr != nil {
			return "", &backup.LocalIOError{Op: "write", Path: path, Err: werr}
		}
	case s.URL != "":
		if _, derr := p.client.DownloadArtifact(ctx, s.URL, f); derr != nil {
			return "", derr
		}
	default:
		return "", &backup.RemoteOperationError{
			Op:  "provision item level recovery",
			Err: errors.New("client script has neither content nor url"),
		}
	}

	closed = true
	if cerr := f.Close(); cerr != nil {
		return "", &backup.LocalIOError{Op: "close", Path: path, Err: cerr}
	}
	return path, nil
}

// createExclusive never reuses an existing name, so a second grant keeps the
// first grant's script intact.
func createExclusive(dir, base, ext string) (*os.File, string, error) {
	path := filepath.Join(dir, base+ext)
	for i := 0; i < maxNameTries; i++ {
		if i > 0 {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", base, i, ext))
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o700)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, path, err
		}
	}
	return nil, path, fmt.Errorf("no free file name after %d attempts", maxNameTries)
}
