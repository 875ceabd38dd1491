package httpx

import (
    "net"
    "net/http"
    "time"
)

// New builds the shared http.Client with sane defaults for polling a
// single upstream API on an interval. Connection pooling is sized for one
// host; the overall timeout bounds a whole fetch cycle.
func New(timeout time.Duration) *http.Client {
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          20,
        MaxIdleConnsPerHost:   10,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   3 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        ResponseHeaderTimeout: 10 * time.Second,
    }
    return &http.Client{Timeout: timeout, Transport: transport}
}
