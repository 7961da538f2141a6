package qabalah

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// pathHasPrefix checks if path starts with prefix, handling case sensitivity
// based on the operating system's file system conventions
func pathHasPrefix(path, prefix string) bool {
	// Windows and macOS (darwin) typically have case-insensitive file systems
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return strings.HasPrefix(strings.ToLower(path), strings.ToLower(prefix))
	}
	return strings.HasPrefix(path, prefix)
}

// pathEquals checks if two paths are equal, handling case sensitivity
// based on the operating system's file system conventions
func pathEquals(path1, path2 string) bool {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return strings.EqualFold(path1, path2)
	}
	return path1 == path2
}

// resolveReadPath makes path absolute and checks it against the configured
// read roots.
func (interp *Interpreter) resolveReadPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("invalid path: %v", err)
	}
	absPath = filepath.Clean(absPath)

	if interp.config.FileAccess == nil || interp.config.FileAccess.ReadRoots == nil {
		// nil means unrestricted
		return absPath, nil
	}
	roots := interp.config.FileAccess.ReadRoots
	if len(roots) == 0 {
		return "", fmt.Errorf("read access denied: no read roots configured")
	}
	for _, root := range roots {
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		absRoot = filepath.Clean(absRoot)
		if pathHasPrefix(absPath, absRoot+string(filepath.Separator)) || pathEquals(absPath, absRoot) {
			return absPath, nil
		}
	}
	return "", fmt.Errorf("read access denied: path outside allowed roots")
}

// ReadScript reads a script file and returns its content and the index
// where execution starts, past a leading "#!" line if there is one.
func ReadScript(path string) ([]byte, int, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}
	return src, SkipShebang(src), nil
}

// SkipShebang returns the index after a leading "#!" line, or 0.
func SkipShebang(src []byte) int {
	if !bytes.HasPrefix(src, []byte("#!")) {
		return 0
	}
	if k := bytes.IndexByte(src, '\n'); k >= 0 {
		return k + 1
	}
	if k := bytes.IndexByte(src, '\r'); k >= 0 {
		return k + 1
	}
	return 0
}

// include reads the named file for the include operator. Any failure is
// logged and yields no source.
func (interp *Interpreter) include(name string) ([]byte, int, string) {
	path, err := interp.resolveReadPath(name)
	if err != nil {
		interp.logger.DebugCat(CatIO, "Include %q skipped: %v", name, err)
		return nil, 0, ""
	}
	src, start, err := ReadScript(path)
	if err != nil {
		interp.logger.DebugCat(CatIO, "Include %q skipped: %v", name, err)
		return nil, 0, ""
	}
	interp.logger.DebugCat(CatIO, "Read file %s (len: %d)", path, len(src))
	return src, start, path
}
