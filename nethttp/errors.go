// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/gogama/reqflow/clienterr"
)

// defaultTable translates native net/http transport errors into the
// clienterr taxonomy. Rules are ordered most specific first: a dial
// timeout is a ConnectionTimeout even though it would also satisfy the
// general timeout rule further down.
var defaultTable = clienterr.NewTable(
	clienterr.Rule{Class: clienterr.SSL, Match: isSSL},
	clienterr.Rule{Class: clienterr.InvalidURL, Match: isInvalidURL},
	clienterr.Rule{Class: clienterr.ConnectionTimeout, Match: isConnectTimeout},
	clienterr.Rule{Class: clienterr.ServerTimeout, Match: isTimeout},
	clienterr.Rule{Class: clienterr.Connection, Match: isConnection},
)

func isSSL(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var certInvalid x509.CertificateInvalidError
	var recordHeader tls.RecordHeaderError
	var certVerification *tls.CertificateVerificationError
	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostname) ||
		errors.As(err, &certInvalid) ||
		errors.As(err, &recordHeader) ||
		errors.As(err, &certVerification)
}

// isInvalidURL sniffs the small set of net/http errors raised before
// any connection is attempted. The standard library reports these only
// as text inside a *url.Error, so there is nothing sturdier than the
// message to match on.
func isInvalidURL(err error) bool {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	msg := urlErr.Err.Error()
	return strings.Contains(msg, "unsupported protocol scheme") ||
		strings.Contains(msg, "no Host in request URL") ||
		strings.Contains(msg, "missing protocol scheme")
}

func isConnectTimeout(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial" && opErr.Timeout()
}

// isTimeout mirrors the net package convention: any error in the chain
// with a Timeout method that reports true. Temporary() is deliberately
// not consulted, as its semantics aren't entirely clear.
func isTimeout(err error) bool {
	var t hasTimeout
	if errors.As(err, &t) && t.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isConnection(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

type hasTimeout interface {
	Timeout() bool
}
