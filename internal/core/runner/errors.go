package runner

import "errors"

var ErrRunnerAlreadyRunning = errors.New("runner already running")
