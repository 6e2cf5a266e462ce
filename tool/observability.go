package tool

import "sync/atomic"

// DispatchObservation captures one dispatch outcome for observers.
type DispatchObservation struct {
	Operation  string
	Success    bool
	ErrorCode  string
	DurationMS int64
}

// CallObservation captures one caller-side remote exchange, including the
// provenance of the result the caller ultimately returned.
type CallObservation struct {
	Specialist string
	Operation  string
	Source     string
	ErrorCode  string
	DurationMS int64
}

// Observer receives dispatch and caller observations. Implementations must
// be safe for concurrent use.
type Observer interface {
	ObserveDispatch(DispatchObservation)
	ObserveCall(CallObservation)
}

var observer atomic.Pointer[Observer]

// SetObserver installs the process-wide observer. Pass nil to remove it.
func SetObserver(o Observer) {
	if o == nil {
		observer.Store(nil)
		return
	}
	observer.Store(&o)
}

func observeDispatch(obs DispatchObservation) {
	if p := observer.Load(); p != nil {
		(*p).ObserveDispatch(obs)
	}
}

// ObserveCall forwards a caller observation to the installed observer.
// Exported so the agent package can report without importing otel.
func ObserveCall(obs CallObservation) {
	if p := observer.Load(); p != nil {
		(*p).ObserveCall(obs)
	}
}
