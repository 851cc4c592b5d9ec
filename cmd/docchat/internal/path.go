package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveLibraryRoot resolves the absolute path of the document library
// root, following symlinks. An empty path means the current directory.
func ResolveLibraryRoot(libraryPath string) (string, error) {
	root := libraryPath
	if root == "" {
		root = "."
	}

	absPath, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}
	return absPath, nil
}

// DefaultDBPath 基于文档库根目录生成默认的 SQLite 数据库路径。
func DefaultDBPath(libraryRoot string) (string, error) {
	dataDir, name, err := libraryDataName(libraryRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name+".db"), nil
}

// DefaultTextIndexPath 基于文档库根目录生成默认的 bleve 索引路径。
func DefaultTextIndexPath(libraryRoot string) (string, error) {
	dataDir, name, err := libraryDataName(libraryRoot)
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, name+".bleve"), nil
}

func libraryDataName(libraryRoot string) (dataDir, name string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}
	dataDir = filepath.Join(homeDir, ".docchat", "data")
	libName := sanitizeLibraryName(filepath.Base(libraryRoot))
	hash := sha1.Sum([]byte(libraryRoot))
	suffix := hex.EncodeToString(hash[:])[:12]
	return dataDir, fmt.Sprintf("%s-%s", libName, suffix), nil
}

// sanitizeLibraryName 将目录名称中的危险字符替换为下划线。
func sanitizeLibraryName(name string) string {
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "library"
	}
	var b strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '.' || r == '_' || r == '-' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	if b.Len() == 0 {
		return "library"
	}
	return b.String()
}
