// Package nifcloud is a small client for the NIFCLOUD control-plane API,
// covering the load balancer actions nifcloud-lb needs.
//
// # Requests
//
// Every request carries Action, AccessKeyId, SignatureMethod (HmacSHA256),
// SignatureVersion (2), Timestamp and Signature. The signature is the base64
// HMAC-SHA256 of four newline-joined lines:
//
//	GET
//	west-1.cp.cloud.nifty.com
//	/api/
//	AccessKeyId=...&Action=DescribeLoadBalancers&SignatureMethod=HmacSHA256&...
//
// where parameters are sorted by key and values are percent-encoded with
// nothing but A-Z a-z 0-9 - _ . ~ left literal. GET requests send parameters
// in the query string, POST requests as a form-encoded body.
//
// # Responses
//
// Success envelopes declare a default namespace, which differs between API
// versions, so it is read from the root element and used to qualify all
// lookups through Response.Query. Error envelopes have no namespace and
// carry Errors/Error/{Code,Message}; Response.Err turns them into *APIError.
//
// # Errors
//
//   - *TransportError: no HTTP response was obtained
//   - *MalformedResponseError: the body is not well-formed XML or lacks an error code
//   - *UnsupportedMethodError: a method other than GET or POST was requested
//   - *APIError: the API rejected the request
package nifcloud
