// Package scrape 抓取 5ch 掲示板线程，作为公告板原稿的数据来源。
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// novaURLPrefix 目前仅支持 nova 子域的线程页面
const novaURLPrefix = "https://nova.5ch.net/test/read.cgi/"

// ErrUnsupportedURL 非受支持的线程 URL
var ErrUnsupportedURL = fmt.Errorf("unsupported thread url, expected prefix %s", novaURLPrefix)

// Post 线程中的一条回帖
type Post struct {
	UserID string
	Text   string
}

// Thread 抓取到的线程全文
type Thread struct {
	Title string
	URL   string
	Posts []Post
}

// Client 线程抓取客户端
type Client struct {
	httpClient *http.Client
}

// NewClient 创建抓取客户端
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchThread 抓取并解析线程页面。页面为 Shift_JIS 编码。
func (c *Client) FetchThread(ctx context.Context, url string) (*Thread, error) {
	if !strings.HasPrefix(url, novaURLPrefix) {
		return nil, ErrUnsupportedURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build thread request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch thread %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch thread %s: unexpected status %d", url, resp.StatusCode)
	}

	reader := transform.NewReader(resp.Body, japanese.ShiftJIS.NewDecoder())
	thread, err := ParseThread(reader, url)
	if err != nil {
		return nil, err
	}

	log.Info().Str("url", url).Str("title", thread.Title).Int("posts", len(thread.Posts)).Msg("thread fetched")
	return thread, nil
}

// ParseThread 解析线程 HTML（UTF-8 已解码后的流）
func ParseThread(r io.Reader, url string) (*Thread, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse thread html: %w", err)
	}

	thread := &Thread{
		Title: strings.TrimSpace(doc.Find("h1#threadtitle").Text()),
		URL:   url,
	}

	doc.Find("article.clear.post").Each(func(_ int, s *goquery.Selection) {
		userID, _ := s.Attr("data-userid")
		text := s.Find("section.post-content").Text()
		thread.Posts = append(thread.Posts, Post{
			UserID: userID,
			Text:   text,
		})
	})

	if len(thread.Posts) == 0 {
		return nil, fmt.Errorf("thread %s contains no posts", url)
	}
	return thread, nil
}
