package gainmap

import "os"

type Logger interface {
	Info(message string, module string)
	Error(string)
}

var logger Logger = NewLogger(os.Stdout, os.Stderr)

func SetLogger(l Logger) {
	logger = l
}

func GetLogger() Logger {
	return logger
}
