package http

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/campus"
)

// List returns the whole feed without paging.
func (c *Client) List(ctx context.Context) ([]campus.Post, error) {
	var env envelope[[]postDTO]
	if err := c.do(ctx, http.MethodGet, communityListPath, nil, nil, &env); err != nil {
		return nil, err
	}
	return postsToDomain(env.Data), nil
}

// Search returns a page of posts matching q.Keyword.
func (c *Client) Search(ctx context.Context, q campus.PageQuery) (campus.PostPage, error) {
	return c.page(ctx, communitySearchPath, q)
}

// Page returns a page of the feed, filtered when q.Keyword is set.
func (c *Client) Page(ctx context.Context, q campus.PageQuery) (campus.PostPage, error) {
	return c.page(ctx, communityPagePath, q)
}

func (c *Client) page(ctx context.Context, path string, q campus.PageQuery) (campus.PostPage, error) {
	if err := q.Validate(); err != nil {
		return campus.PostPage{}, fmt.Errorf("http: %w", err)
	}
	q = q.WithDefaults()
	params := url.Values{
		"pageNum":  {strconv.Itoa(q.PageNum)},
		"pageSize": {strconv.Itoa(q.PageSize)},
	}
	if q.Keyword != "" {
		params.Set("keyword", q.Keyword)
	}

	var env envelope[postPageDTO]
	if err := c.do(ctx, http.MethodGet, path, params, nil, &env); err != nil {
		return campus.PostPage{}, err
	}
	return campus.PostPage{List: postsToDomain(env.Data.List), Total: env.Data.Total}, nil
}

// Post returns a single post.
func (c *Client) Post(ctx context.Context, id string) (campus.Post, error) {
	if id == "" {
		return campus.Post{}, fmt.Errorf("http: post id must not be empty: %w", campus.ErrValidation)
	}
	var env envelope[postDTO]
	if err := c.do(ctx, http.MethodGet, communityPostPrefix+url.PathEscape(id), nil, nil, &env); err != nil {
		return campus.Post{}, err
	}
	return env.Data.toDomain(), nil
}

// UploadImages sends files as one multipart form, each under the "files"
// field, and returns the URLs the backend assigned in the same order.
func (c *Client) UploadImages(ctx context.Context, files []campus.Upload) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipartDisposition("files", f.Name))
		h.Set("Content-Type", http.DetectContentType(f.Data))
		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, fmt.Errorf("http: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, communityImagePath, nil, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var env envelope[uploadResponse]
	if err := c.roundTrip(req, &env); err != nil {
		return nil, err
	}
	return env.Data.URLs, nil
}

// AddPost publishes d. Counters start at zero and the post is stamped with
// the client's clock in local time.
func (c *Client) AddPost(ctx context.Context, d campus.PostDraft) error {
	if err := d.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	return c.do(ctx, http.MethodPost, communityAddPath, nil, addPostRequest{
		Avatar:  d.Avatar,
		Name:    d.Name,
		Title:   d.Title,
		Time:    c.now().In(time.Local).Format(postTimeLayout),
		Content: d.Content,
		Photo:   d.Photos,
		Video:   d.Videos,
		Link:    d.Links,
	}, nil)
}

// Like sets or clears the caller's like on post id.
func (c *Client) Like(ctx context.Context, id string, liked bool) error {
	return c.toggle(ctx, communityLikePath, id, liked)
}

// Collect sets or clears the caller's bookmark on post id.
func (c *Client) Collect(ctx context.Context, id string, collected bool) error {
	return c.toggle(ctx, communityCollectPath, id, collected)
}

// toggle hits a flag endpoint. Both endpoints name the flag isLiked.
func (c *Client) toggle(ctx context.Context, path, id string, on bool) error {
	if id == "" {
		return fmt.Errorf("http: post id must not be empty: %w", campus.ErrValidation)
	}
	q := url.Values{"id": {id}, "isLiked": {strconv.FormatBool(on)}}
	return c.do(ctx, http.MethodGet, path, q, nil, nil)
}

func multipartDisposition(field, filename string) string {
	return fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename)
}
