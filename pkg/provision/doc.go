// Package provision implements the certificate bootstrap flow: a
// password-grant login against the account service, a certificate
// issuance request for one device, and bounded polling until the signed
// client certificate and the device's network address are available.
package provision
