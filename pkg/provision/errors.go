package provision

import "fmt"

// AuthError indicates the password-grant login failed. Logins are never
// retried.
type AuthError struct {
	Status int
	Err    error
}

// Error returns a description of the failed login.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("login failed: %v", e.Err)
	}
	return fmt.Sprintf("login failed: status %d", e.Status)
}

// Unwrap returns the underlying transport error, if any.
func (e *AuthError) Unwrap() error { return e.Err }

// ProvisioningError indicates the certificate issuance request failed.
// Issuance is never retried.
type ProvisioningError struct {
	Status int
	Err    error
}

// Error returns a description of the failed issuance request.
func (e *ProvisioningError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("certificate creation failed: %v", e.Err)
	}
	return fmt.Sprintf("certificate creation failed: status %d", e.Status)
}

// Unwrap returns the underlying transport error, if any.
func (e *ProvisioningError) Unwrap() error { return e.Err }

// CertificateRetrievalError indicates a retrieval poll returned a
// non-200 status. Non-200 aborts polling immediately.
type CertificateRetrievalError struct {
	Status int
	Err    error
}

// Error returns a description of the failed retrieval.
func (e *CertificateRetrievalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("certificate retrieval failed: %v", e.Err)
	}
	return fmt.Sprintf("certificate retrieval failed: status %d", e.Status)
}

// Unwrap returns the underlying transport error, if any.
func (e *CertificateRetrievalError) Unwrap() error { return e.Err }

// CertificateTimeoutError indicates every retrieval attempt was used
// without the certificate becoming available.
type CertificateTimeoutError struct {
	Attempts int
}

// Error returns a description of the exhausted polling.
func (e *CertificateTimeoutError) Error() string {
	return fmt.Sprintf("certificate not available after %d attempts", e.Attempts)
}
