package conventions

import "path/filepath"

const (
	// DefaultDataDir is the default wsc data directory name (relative to home).
	DefaultDataDir = ".wsc"
	// DBFile is the task journal database filename.
	DBFile = "wsc.db"
	// AnswerImageExt is the extension of rendered handwritten answers.
	AnswerImageExt = ".png"
)

// DBPath returns the task journal database path inside a home directory.
func DBPath(homeDir string) string {
	return filepath.Join(homeDir, DefaultDataDir, DBFile)
}

// AnswerImagePath returns the file path of a rendered handwritten answer.
func AnswerImagePath(outDir, problemID string) string {
	return filepath.Join(outDir, filepath.Base(problemID)+AnswerImageExt)
}
