package mock

import (
	"context"

	"github.com/fwojciec/campus"
)

// CommunityService is a test double for campus.CommunityService.
type CommunityService struct {
	ListFn         func(ctx context.Context) ([]campus.Post, error)
	SearchFn       func(ctx context.Context, q campus.PageQuery) (campus.PostPage, error)
	PageFn         func(ctx context.Context, q campus.PageQuery) (campus.PostPage, error)
	PostFn         func(ctx context.Context, id string) (campus.Post, error)
	UploadImagesFn func(ctx context.Context, files []campus.Upload) ([]string, error)
	AddPostFn      func(ctx context.Context, d campus.PostDraft) error
	LikeFn         func(ctx context.Context, id string, liked bool) error
	CollectFn      func(ctx context.Context, id string, collected bool) error
}

func (s *CommunityService) List(ctx context.Context) ([]campus.Post, error) {
	return s.ListFn(ctx)
}

func (s *CommunityService) Search(ctx context.Context, q campus.PageQuery) (campus.PostPage, error) {
	return s.SearchFn(ctx, q)
}

func (s *CommunityService) Page(ctx context.Context, q campus.PageQuery) (campus.PostPage, error) {
	return s.PageFn(ctx, q)
}

func (s *CommunityService) Post(ctx context.Context, id string) (campus.Post, error) {
	return s.PostFn(ctx, id)
}

func (s *CommunityService) UploadImages(ctx context.Context, files []campus.Upload) ([]string, error) {
	return s.UploadImagesFn(ctx, files)
}

func (s *CommunityService) AddPost(ctx context.Context, d campus.PostDraft) error {
	return s.AddPostFn(ctx, d)
}

func (s *CommunityService) Like(ctx context.Context, id string, liked bool) error {
	return s.LikeFn(ctx, id, liked)
}

func (s *CommunityService) Collect(ctx context.Context, id string, collected bool) error {
	return s.CollectFn(ctx, id, collected)
}
