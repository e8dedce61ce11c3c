// Package tuteliq provides the official Go SDK for the Tuteliq Child Safety API.
//
// Tuteliq analyzes the conversations and media children are exposed to and
// detects bullying, grooming, and other unsafe content. This SDK provides a
// simple and idiomatic Go interface for integrating those capabilities into
// your applications, along with the GDPR, webhook, and usage endpoints of
// the platform.
//
// # Quick Start
//
// To get started, you'll need a Tuteliq API key from the dashboard.
//
//	import "github.com/tuteliq/gosdk"
//
//	// Create a client
//	client, err := tuteliq.New(tuteliq.WithAPIKey("your-api-key"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Analyze a message
//	result, err := client.DetectBullying(context.Background(), &tuteliq.BullyingRequest{
//		Text: "message to analyze",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if result.IsBullying {
//		fmt.Println("Bullying detected:", result.Severity, result.BullyingTypes)
//	}
//
// # Sessions and Operations
//
// Applications that observe request state (loading indicators, error
// surfaces) can wrap any call in an Operation, created against a Session
// that owns the client for a scope of the program:
//
//	session := tuteliq.NewSession()
//	if err := session.Initialize("your-api-key"); err != nil {
//		log.Fatal(err)
//	}
//	defer session.Close()
//
//	op := tuteliq.NewDetectBullyingOperation(session)
//	cancel := op.Subscribe(func(s tuteliq.State[tuteliq.BullyingResult]) {
//		// update your UI from s.Loading / s.Data / s.Err
//	})
//	defer cancel()
//
//	result, err := op.Execute(ctx, &tuteliq.BullyingRequest{Text: "..."})
//
// Execute publishes a loading state synchronously before the request is
// made, then exactly one of a data or error state when it settles. Reset
// returns the operation to its initial state at any time.
//
// # Error Handling and Retries
//
// Every failure carries a Kind from a closed taxonomy, so callers can match
// without depending on concrete types:
//
//	var apiErr *tuteliq.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == tuteliq.KindRateLimit {
//		// back off per apiErr.RetryAfter
//	}
//
// The SDK automatically retries rate-limited and transient failures with
// configurable exponential backoff:
//
//	client, err := tuteliq.New(
//		tuteliq.WithAPIKey("your-api-key"),
//		tuteliq.WithRetryConfig(tuteliq.RetryConfig{
//			MaxRetries:      3,
//			InitialInterval: 500 * time.Millisecond,
//			MaxInterval:     30 * time.Second,
//			Multiplier:      2.0,
//		}),
//	)
//
// Authentication, validation, and not-found failures are never retried.
//
// # Tracking Fields
//
// Every request accepts an optional ExternalID and Metadata. Both are opaque
// to the SDK and the API and are echoed back verbatim on the result, which
// lets you correlate results with records in your own system without keeping
// request state around.
//
// # Real-Time Voice
//
// Live audio monitoring uses a persistent streaming session instead of the
// request/response catalog; see Client.NewVoiceSession.
//
// For more information and examples, visit: https://docs.tuteliq.ai
package tuteliq
