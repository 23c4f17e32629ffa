package analysis

import (
	"errors"
	"fmt"

	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
)

// Kind classifies every failure the engine can surface. Exactly one kind is
// emitted per failed request.
type Kind int

const (
	KindValidation Kind = iota
	KindTransport
	KindUpstream
	KindSchema
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindUpstream:
		return "upstream"
	case KindSchema:
		return "schema"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// UserMessage is the caller-facing text for this kind. Diagnostics live in the
// wrapped detail; résumé content is never part of either.
func (k Kind) UserMessage() string {
	switch k {
	case KindValidation:
		return "简历或岗位输入无效，请修改后重试。(Invalid input)"
	case KindTransport:
		return "网络连接失败，请检查网络后重试。(Network error)"
	case KindUpstream:
		return "模型服务返回错误，请稍后重试。(Provider error)"
	case KindSchema:
		return "模型输出不符合约定格式，请稍后重试。(Malformed model output)"
	case KindPersistence:
		return "岗位库读写失败，已回退到内置岗位数据。(Job store I/O error)"
	default:
		return "发生未知错误，请重试。(Unknown error)"
	}
}

// Error is the typed failure of one analysis request.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// KindOf extracts the kind from a typed error. Job-store write failures
// classify as KindPersistence even when raised outside the engine.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	if errors.Is(err, jobstore.ErrPersistence) {
		return KindPersistence, true
	}
	return 0, false
}
