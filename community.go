package campus

import "time"

// Post is an entry of the community feed.
type Post struct {
	ID          string
	Avatar      string
	Name        string
	Title       string
	Time        time.Time
	Content     string
	Likes       int
	Comments    int
	Collection  int
	Photos      []string
	Videos      []string
	Links       []string
	IsLiked     bool
	IsCollected bool
}

// PostPage is one page of the feed together with the total match count.
type PostPage struct {
	List  []Post
	Total int
}

// PostDraft is the input for publishing a post. Photos holds URLs returned
// by CommunityService.UploadImages.
type PostDraft struct {
	Avatar  string
	Name    string
	Title   string
	Content string
	Photos  []string
	Videos  []string
	Links   []string
}

// Upload is a named file to send to the image upload endpoint.
type Upload struct {
	Name string
	Data []byte
}
