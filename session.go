package tuteliq

import "sync"

// Session owns exactly one Client for a scope of your application and hands
// it to the operation adapters created against it (see the New*Operation
// constructors). It replaces ad-hoc global client variables: construct one
// Session where your application wires its dependencies and pass it down.
//
// A Session starts uninitialized. Initialize constructs the Client on the
// first call only; later calls are no-ops even with different credentials.
// That keying on the Session instance rather than on argument equality is
// deliberate: a scope gets one handle for its whole lifetime, and swapping
// credentials means tearing the scope down and building a new Session.
type Session struct {
	mu     sync.Mutex
	client *Client
}

// NewSession creates an uninitialized session.
func NewSession() *Session {
	return &Session{}
}

// Initialize constructs the session's Client if and only if none exists yet.
// Repeat calls return nil without touching the existing handle. A failed
// construction leaves the session uninitialized, so Initialize can be called
// again after fixing the configuration.
func (s *Session) Initialize(apiKey string, options ...option) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return nil
	}

	client, err := New(append([]option{WithAPIKey(apiKey)}, options...)...)
	if err != nil {
		return err
	}
	s.client = client
	return nil
}

// Lookup returns the session's Client and whether it is ready. Callers that
// cannot proceed without a client should treat ok == false as a programming
// error (Initialize was never called for this scope), not as a condition to
// retry.
func (s *Session) Lookup() (*Client, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.client, s.client != nil
}

// Close tears down the owned Client. The session returns to the
// uninitialized state and can be initialized again.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
