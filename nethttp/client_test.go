// Copyright 2024 The reqflow Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package nethttp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gogama/reqflow"
	"github.com/gogama/reqflow/clienterr"
	"github.com/gogama/reqflow/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var httpServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var httpsServer = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var http2Server = httptest.NewUnstartedServer(http.HandlerFunc(serverHandler))
var servers = []*httptest.Server{httpServer, httpsServer, http2Server}

func TestMain(m *testing.M) {
	httpServer.Start()
	defer httpServer.Close()
	httpsServer.StartTLS()
	defer httpsServer.Close()
	http2Server.EnableHTTP2 = true
	http2Server.StartTLS()
	defer http2Server.Close()
	os.Exit(m.Run())
}

func serverName(server *httptest.Server) string {
	switch server {
	case httpServer:
		return "http"
	case httpsServer:
		return "https"
	case http2Server:
		return "http2"
	default:
		panic("unknown server")
	}
}

// serverHandler echoes the request body back with the status code given
// in the X-Status header, pausing first for the duration in X-Pause.
func serverHandler(w http.ResponseWriter, req *http.Request) {
	b, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		w.WriteHeader(400)
		return
	}
	if h := req.Header.Get("X-Pause"); h != "" {
		d, err := time.ParseDuration(h)
		if err != nil {
			w.WriteHeader(400)
			return
		}
		time.Sleep(d)
	}
	status := 200
	if h := req.Header.Get("X-Status"); h != "" {
		status, err = strconv.Atoi(h)
		if err != nil {
			w.WriteHeader(400)
			return
		}
	}
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func TestSend(t *testing.T) {
	for _, server := range servers {
		t.Run(serverName(server), func(t *testing.T) {
			c := Wrap(server.Client())
			p, err := request.NewPlan("POST", server.URL, "marco")
			require.NoError(t, err)
			v, err := c.Send(p)
			require.NoError(t, err)
			resp, ok := v.(*Response)
			require.True(t, ok)
			assert.Equal(t, 200, resp.StatusCode)
			assert.Equal(t, []byte("marco"), resp.Body)
			assert.Same(t, p, resp.Request)
		})
	}
	t.Run("non-2xx status is not an error", func(t *testing.T) {
		c := Wrap(httpServer.Client())
		p, err := request.NewPlan("GET", httpServer.URL, nil)
		require.NoError(t, err)
		p.Header = http.Header{"X-Status": []string{"503"}}
		v, err := c.Send(p)
		require.NoError(t, err)
		resp := v.(*Response)
		assert.Equal(t, 503, resp.StatusCode)
	})
	t.Run("unsupported request type", func(t *testing.T) {
		c := New()
		v, err := c.Send("not a plan")
		assert.Nil(t, v)
		assert.EqualError(t, err, "reqflow/nethttp: unsupported request type string (want *request.Plan)")
	})
}

func TestSendErrorTranslation(t *testing.T) {
	t.Run("server timeout", func(t *testing.T) {
		session := httpServer.Client()
		session.Timeout = 10 * time.Millisecond
		c := Wrap(session)
		p, err := request.NewPlan("GET", httpServer.URL, nil)
		require.NoError(t, err)
		p.Header = http.Header{"X-Pause": []string{"250ms"}}
		v, err := c.Send(p)
		assert.Nil(t, v)
		require.Error(t, err)
		class, ok := clienterr.ClassOf(err)
		require.True(t, ok)
		assert.Equal(t, clienterr.ServerTimeout, class)
		assert.ErrorIs(t, err, clienterr.ServerTimeout)
		assert.ErrorIs(t, err, clienterr.Base)
	})
	t.Run("connection refused", func(t *testing.T) {
		dead := httptest.NewServer(http.NotFoundHandler())
		url := dead.URL
		dead.Close()
		c := New()
		defer func() { _ = c.Close() }()
		p, err := request.NewPlan("GET", url, nil)
		require.NoError(t, err)
		v, err := c.Send(p)
		assert.Nil(t, v)
		require.Error(t, err)
		class, ok := clienterr.ClassOf(err)
		require.True(t, ok)
		assert.Equal(t, clienterr.Connection, class)
		assert.ErrorIs(t, err, clienterr.Connection)
		assert.ErrorIs(t, err, clienterr.Base)
		assert.NotErrorIs(t, err, clienterr.ConnectionTimeout)
	})
	t.Run("invalid URL", func(t *testing.T) {
		c := New()
		defer func() { _ = c.Close() }()
		p, err := request.NewPlan("GET", "gopher://underground.example.com", nil)
		require.NoError(t, err)
		v, err := c.Send(p)
		assert.Nil(t, v)
		require.Error(t, err)
		assert.ErrorIs(t, err, clienterr.InvalidURL)
	})
	t.Run("certificate", func(t *testing.T) {
		// An owned session does not trust the test server certificate.
		c := New()
		defer func() { _ = c.Close() }()
		p, err := request.NewPlan("GET", httpsServer.URL, nil)
		require.NoError(t, err)
		v, err := c.Send(p)
		assert.Nil(t, v)
		require.Error(t, err)
		assert.ErrorIs(t, err, clienterr.SSL)
		assert.ErrorIs(t, err, clienterr.Connection)
	})
}

type countingTransport struct {
	http.Transport
	closed int
}

func (t *countingTransport) CloseIdleConnections() {
	t.closed++
	t.Transport.CloseIdleConnections()
}

func TestClose(t *testing.T) {
	t.Run("owned session is released", func(t *testing.T) {
		tr := &countingTransport{}
		c := New(WithTransport(tr))
		p, err := request.NewPlan("GET", httpServer.URL, nil)
		require.NoError(t, err)
		_, err = c.Send(p)
		require.NoError(t, err)
		require.NoError(t, c.Close())
		assert.Equal(t, 1, tr.closed)
	})
	t.Run("owned session is released exactly once", func(t *testing.T) {
		tr := &countingTransport{}
		c := New(WithTransport(tr))
		p, err := request.NewPlan("GET", httpServer.URL, nil)
		require.NoError(t, err)
		_, err = c.Send(p)
		require.NoError(t, err)
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		assert.Equal(t, 1, tr.closed)
	})
	t.Run("owned session not yet created", func(t *testing.T) {
		tr := &countingTransport{}
		c := New(WithTransport(tr))
		require.NoError(t, c.Close())
		assert.Equal(t, 0, tr.closed)
	})
	t.Run("wrapped session is never released", func(t *testing.T) {
		tr := &countingTransport{}
		c := Wrap(&http.Client{Transport: tr})
		require.NoError(t, c.Close())
		assert.Equal(t, 0, tr.closed)
	})
}

func TestNew(t *testing.T) {
	t.Run("session is created lazily", func(t *testing.T) {
		c := New(WithTimeout(time.Minute))
		assert.Nil(t, c.session)
		s := c.httpClient()
		require.NotNil(t, s)
		assert.Equal(t, time.Minute, s.Timeout)
		assert.Same(t, s, c.httpClient())
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil session", func(t *testing.T) {
		assert.PanicsWithValue(t, "reqflow/nethttp: nil session", func() {
			Wrap(nil)
		})
	})
	t.Run("session is borrowed", func(t *testing.T) {
		s := &http.Client{}
		c := Wrap(s)
		assert.Same(t, s, c.httpClient())
	})
}

func TestApplyCallback(t *testing.T) {
	c := New()
	v, err := c.ApplyCallback(func(response interface{}) (interface{}, error) {
		return response.(string) + " polo", nil
	}, "marco")
	assert.NoError(t, err)
	assert.Equal(t, "marco polo", v)
}

func TestRegistry(t *testing.T) {
	t.Run("AdapterFor recognizes http.Client", func(t *testing.T) {
		s := &http.Client{}
		c := reqflow.AdapterFor(s)
		require.NotNil(t, c)
		nc, ok := c.(*Client)
		require.True(t, ok)
		assert.Same(t, s, nc.httpClient())
	})
	t.Run("AdapterFor rejects other sessions", func(t *testing.T) {
		assert.Nil(t, reqflow.AdapterFor("not a session"))
	})
	t.Run("DefaultClient", func(t *testing.T) {
		c := reqflow.DefaultClient()
		require.NotNil(t, c)
		_, ok := c.(*Client)
		assert.True(t, ok)
	})
}

func TestErrors(t *testing.T) {
	c := New()
	assert.Same(t, defaultTable, c.Errors())
}
