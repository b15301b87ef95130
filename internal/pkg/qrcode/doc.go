// Package qrcode renders text as PNG QR codes, optionally wrapped in a
// base64 data URI for direct embedding in web responses.
//
// The typical use here is encoding a TOTP provisioning URI so an
// authenticator app can import the secret by scanning the image.
package qrcode
