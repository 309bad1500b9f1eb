package utils

import (
	"fmt"
	"runtime"
)

// Stack returns a formatted stack trace of the calling goroutine,
// skipping the given number of frames.
func Stack(skip int) []byte {
	buf := make([]byte, 0, 2048)
	for i := skip; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		name := "???"
		if fn != nil {
			name = fn.Name()
		}
		buf = append(buf, fmt.Sprintf("%s\n\t%s:%d (0x%x)\n", name, file, line, pc)...)
	}
	return buf
}
