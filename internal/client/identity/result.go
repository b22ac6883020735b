package identity

// Kind tags a Result.
type Kind int

const (
	KindIdle Kind = iota
	KindLoading
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindIdle:
		return "idle"
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	}
	return "unknown"
}

// Result is the outcome of an auth operation. UserID is set for
// KindSuccess; Message (and Code, when the provider supplied one) for
// KindError.
type Result struct {
	Kind    Kind
	UserID  string
	Message string
	Code    string
}

func Idle() Result { return Result{Kind: KindIdle} }
func Loading() Result { return Result{Kind: KindLoading} }
func Success(uid string) Result { return Result{Kind: KindSuccess, UserID: uid} }
func Failure(message string) Result { return Result{Kind: KindError, Message: message} }

func (r Result) OK() bool { return r.Kind == KindSuccess }
