package gemini

import (
	"errors"
	"iter"

	"google.golang.org/genai"
)

// ErrIncompleteStream means the reply stream ended before the model sent a
// finish reason, usually because the connection was cut.
var ErrIncompleteStream = errors.New("reply stream ended before the model finished")

// Stream is a single-pass sequence of reply fragments.
// It is not restartable and must be closed.
type Stream struct {
	next     func() (*genai.GenerateContentResponse, error, bool)
	stop     func()
	text     string
	err      error
	finished bool
	closed   bool
}

// NewStream wraps an SDK response sequence
func NewStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) *Stream {
	next, stop := iter.Pull2(seq)
	return &Stream{next: next, stop: stop}
}

// Next advances to the next non-empty fragment. It returns false when the
// reply is complete, on error, or after Close. A sequence that runs out
// before any chunk carries a finish reason ends with a *TransientError
// wrapping ErrIncompleteStream.
func (s *Stream) Next() bool {
	if s.closed {
		return false
	}
	for {
		resp, err, ok := s.next()
		if !ok {
			if !s.finished {
				s.err = &TransientError{Err: ErrIncompleteStream}
			}
			s.Close()
			return false
		}
		if err != nil {
			s.err = Classify(err)
			s.Close()
			return false
		}
		if resp == nil {
			continue
		}
		if hasFinishReason(resp) {
			s.finished = true
		}
		if text := resp.Text(); text != "" {
			s.text = text
			return true
		}
	}
}

// Text returns the fragment produced by the last successful Next
func (s *Stream) Text() string {
	return s.text
}

// Err returns the error that ended the stream, if any
func (s *Stream) Err() error {
	return s.err
}

// Close stops the underlying iterator. It is safe to call more than once.
func (s *Stream) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.text = ""
	s.stop()
}

func hasFinishReason(resp *genai.GenerateContentResponse) bool {
	for _, c := range resp.Candidates {
		if c != nil && c.FinishReason != "" && c.FinishReason != genai.FinishReasonUnspecified {
			return true
		}
	}
	return false
}
