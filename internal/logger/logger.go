package logger

import (
	"io"
	"log"
	"os"
	"sync"

	"workload-node/internal/config"
)

var (
	fileMutex sync.Mutex
	INFO      *log.Logger
	ERROR     *log.Logger
	logFile   *os.File
)

const logFlags = log.Ldate | log.Ltime | log.Lshortfile

func LogINFO(s string) {
	if INFO == nil {
		return
	}
	INFO.Output(2, s)
}

func LogERROR(s string) {
	if ERROR == nil {
		return
	}
	ERROR.Output(2, s)
}

type lockedFile struct {
	file io.Writer
}

func (lf *lockedFile) Write(p []byte) (n int, err error) {
	fileMutex.Lock()
	defer fileMutex.Unlock()
	return lf.file.Write(p)
}

// InitLogger открывает LOG_FILE_PATH на дозапись. Без пути или при ошибке открытия пишем в stdout
func InitLogger() {
	path := ""
	if config.AppConfig != nil {
		path = config.AppConfig.LogFilePath
	}

	if path == "" {
		SetOutput(os.Stdout)
		return
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Printf("Failed to open log file: %v. We will use standard output", err)
		SetOutput(os.Stdout)
		return
	}

	logFile = f
	SetOutput(f)
}

// SetOutput направляет оба логгера в w
func SetOutput(w io.Writer) {
	writer := &lockedFile{file: w}
	INFO = log.New(writer, "INFO: ", logFlags)
	ERROR = log.New(writer, "ERROR: ", logFlags)
}

func CloseLogger() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
