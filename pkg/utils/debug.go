package utils

import (
	"fmt"
	"runtime"
	"strings"
)

// GetFileAndLoC returns the file path and line of code with skip being the number of stack frames to skip
func GetFileAndLoC(skip int) string {
	_, filepath, line, ok := runtime.Caller(1 + skip)
	if !ok {
		return "unknown:0"
	}

	// trim to the module-relative path
	if i := strings.LastIndex(filepath, "/pkg/"); i != -1 {
		filepath = filepath[i+1:]
	} else if i := strings.LastIndex(filepath, "/service-"); i != -1 {
		filepath = filepath[i+1:]
	}

	return fmt.Sprintf(
		"%s:%d",
		filepath,
		line,
	)
}
