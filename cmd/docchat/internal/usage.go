package internal

import (
	"fmt"
	"os"
	"strings"
)

const Version = "0.3.1"

// PrintUsage 向 stderr 输出 docchat 的用法与可用子命令列表。
func PrintUsage() {
	fmt.Fprintf(os.Stderr, `docchat - Chat with your document library

Version: %s

USAGE:
    docchat [global options] <command> [command options]

GLOBAL OPTIONS:
    -config <path>
        Path to config file (default: ~/.docchat/config/docchat.yaml)

    -library <path>
        Document library root (default: current directory)

    -v, -version
        Show version information

    -h, -help
        Show this help message

COMMANDS:
    ingest
        Load documents, split them into chunks, and build the search index

    ask
        Answer a single question grounded in the ingested documents

    chat
        Interactive question/answer session (type "exit" to quit)

    search
        Retrieve matching chunks without generating an answer

    stats
        Show library statistics

EXAMPLES:
    # Ingest the current directory
    docchat ingest

    # Ingest a specific library
    docchat -library ~/papers ingest

    # Ask a single question
    docchat ask "what does chapter 3 say about caching?"

    # Interactive session
    docchat chat

    # Inspect retrieval without the LLM
    docchat search "cache invalidation" -k 5

    # Show statistics
    docchat stats

For detailed help on each command, use:
    docchat <command> -help
`, Version)
}

// StringList is a flag.Value that collects multiple strings
type StringList []string

// String 返回 StringList 的逗号连接形式。
func (s *StringList) String() string {
	return strings.Join(*s, ",")
}

// Set 将单个字符串追加到 StringList,允许多次 -flag 传入。
func (s *StringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}
