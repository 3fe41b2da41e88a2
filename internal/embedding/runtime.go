//go:build cgo
// +build cgo

package embedding

import (
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// SharedLibraryEnvVar points ONNX Runtime at a specific libonnxruntime when
// it is not on the default search path.
const SharedLibraryEnvVar = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// initRuntime initializes the process-wide ONNX Runtime environment once.
// Both model sessions share it.
func initRuntime() error {
	ortInitOnce.Do(func() {
		if p := os.Getenv(SharedLibraryEnvVar); p != "" {
			ort.SetSharedLibraryPath(p)
		}
		if err := ort.InitializeEnvironment(); err != nil {
			ortInitErr = fmt.Errorf("failed to initialize ONNX runtime: %w", err)
		}
	})
	return ortInitErr
}

// newSessionOptions builds session options with the intra- and inter-op
// thread pools pinned to threads. The count is fixed at process start and
// never adjusted per request.
func newSessionOptions(threads int) (*ort.SessionOptions, error) {
	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to create session options: %w", err)
	}
	if threads > 0 {
		if err := opts.SetIntraOpNumThreads(threads); err != nil {
			opts.Destroy()
			return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
		}
		if err := opts.SetInterOpNumThreads(threads); err != nil {
			opts.Destroy()
			return nil, fmt.Errorf("failed to set inter-op threads: %w", err)
		}
	}
	return opts, nil
}
