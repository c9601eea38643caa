package domain

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// HTTPAssetConnector searches the shared asset store. Only results whose
// URL host is on the allowlist are returned; everything else is dropped so
// a draft can never link to an unvetted document.
type HTTPAssetConnector struct {
	client *httpClient
}

func NewHTTPAssetConnector(baseURL, apiKey string) *HTTPAssetConnector {
	return &HTTPAssetConnector{client: newHTTPClient(baseURL, apiKey)}
}

func (c *HTTPAssetConnector) Search(ctx context.Context, query string, allowlist []string) ([]AssetRef, error) {
	path := fmt.Sprintf("/assets/search?q=%s", url.QueryEscape(query))
	body, err := c.client.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var refs []AssetRef
	for _, item := range gjson.GetBytes(body, "assets").Array() {
		ref := AssetRef{
			ID:    item.Get("id").String(),
			Title: item.Get("title").String(),
			URL:   item.Get("url").String(),
		}
		if !assetAllowed(ref.URL, allowlist) {
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func assetAllowed(rawURL string, allowlist []string) bool {
	if len(allowlist) == 0 {
		return false
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Host)
	for _, allowed := range allowlist {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
