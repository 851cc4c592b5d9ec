package internal

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// SetupLogging 根据子命令与文档库根目录初始化日志输出。
// 日志同时写入 stderr 与 ~/.docchat/logs 下的独立文件。
func SetupLogging(subcommand string, libraryRoot string) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	logDir := filepath.Join(homeDir, ".docchat", "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	libName := sanitizeLibraryName(filepath.Base(libraryRoot))
	hash := sha1.Sum([]byte(libraryRoot))
	suffix := hex.EncodeToString(hash[:])[:8]
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("docchat-%s-%s-%s-%s.log", subcommand, libName, timestamp, suffix)
	logPath := filepath.Join(logDir, filename)

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	log.Printf("Log file: %s", logPath)
	return nil
}
