package api

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"mesadoc.org/internal/tramites"
)

// Tramites fetches one page of procedures under the given filter set.
func (c *Client) Tramites(ctx context.Context, f tramites.Filters) (tramites.Page, error) {
	var page tramites.Page
	if err := c.do(ctx, http.MethodGet, "/tramites", f.Query(), nil, &page); err != nil {
		return tramites.Page{}, err
	}
	return page, nil
}

// Tramite fetches a single procedure with its full detail.
func (c *Client) Tramite(ctx context.Context, id string) (tramites.Tramite, error) {
	var t tramites.Tramite
	if err := c.do(ctx, http.MethodGet, "/tramites/"+url.PathEscape(id), nil, nil, &t); err != nil {
		return tramites.Tramite{}, err
	}
	return t, nil
}

// DownloadDocumento streams the document content into w.
func (c *Client) DownloadDocumento(ctx context.Context, id string, w io.Writer) error {
	return c.download(ctx, "/documentos/"+url.PathEscape(id)+"/content", w)
}
