package kkdai

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	_ "github.com/bdandy/go-socks4"
	youtube "github.com/kkdai/youtube/v2"
	"github.com/rs/zerolog"
	"golang.org/x/net/proxy"

	"github.com/keshon/dare/internal/music/parsers/ffmpeg"
)

// KKDAIStreamer pulls YouTube audio through the kkdai client and decodes it
// with ffmpeg.
type KKDAIStreamer struct {
	client  *youtube.Client
	decoder *ffmpeg.FFMPEGStreamer
}

func New(client *youtube.Client, decoder *ffmpeg.FFMPEGStreamer) *KKDAIStreamer {
	return &KKDAIStreamer{client: client, decoder: decoder}
}

func (s *KKDAIStreamer) GetLinkStream(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	return s.link(ctx, locator)
}

func (s *KKDAIStreamer) GetPipeStream(ctx context.Context, locator string) (io.ReadCloser, func(), error) {
	return s.pipe(ctx, locator)
}

func (s *KKDAIStreamer) SupportsPipe() bool {
	return true
}

// NewClient builds a kkdai client, routing its traffic through proxyStr when
// one is given. http, https, socks4 and socks5 schemes are understood; anything
// else falls back to a direct connection.
func NewClient(proxyStr string, log zerolog.Logger) *youtube.Client {
	return &youtube.Client{HTTPClient: NewHTTPClient(proxyStr, log)}
}

func NewHTTPClient(proxyStr string, log zerolog.Logger) *http.Client {
	if proxyStr == "" {
		return &http.Client{Timeout: 15 * time.Second}
	}

	proxyURL, err := url.Parse(proxyStr)
	if err != nil {
		log.Warn().Err(err).Msg("invalid proxy format, going direct")
		return &http.Client{Timeout: 15 * time.Second}
	}

	var transport *http.Transport

	switch proxyURL.Scheme {
	case "http", "https":
		log.Info().Str("proxy", proxyURL.Host).Msg("using HTTP proxy")
		transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	case "socks5":
		log.Info().Str("proxy", proxyURL.Host).Msg("using SOCKS5 proxy")
		auth := &proxy.Auth{}
		if proxyURL.User != nil {
			auth.User = proxyURL.User.Username()
			if pass, ok := proxyURL.User.Password(); ok {
				auth.Password = pass
			}
		}
		dialer, err := proxy.SOCKS5("tcp", proxyURL.Host, auth, &net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 10 * time.Second,
		})
		if err != nil {
			log.Warn().Err(err).Msg("SOCKS5 dialer error")
			break
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	case "socks4":
		log.Info().Str("proxy", proxyURL.Host).Msg("using SOCKS4 proxy")
		dialer, err := proxy.FromURL(proxyURL, &net.Dialer{
			Timeout: 10 * time.Second,
		})
		if err != nil {
			log.Warn().Err(err).Msg("SOCKS4 dialer error")
			break
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			},
		}
	default:
		log.Warn().Str("scheme", proxyURL.Scheme).Msg("unsupported proxy scheme")
	}

	if transport == nil {
		return &http.Client{Timeout: 15 * time.Second}
	}

	return &http.Client{
		Timeout:   15 * time.Second,
		Transport: transport,
	}
}

func pickAudioFormat(video *youtube.Video) (*youtube.Format, error) {
	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return nil, fmt.Errorf("no audio formats for %s", video.ID)
	}
	for i := range formats {
		if len(formats[i].MimeType) >= 6 && formats[i].MimeType[:6] == "audio/" {
			return &formats[i], nil
		}
	}
	return &formats[0], nil
}
