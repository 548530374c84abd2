package campus

// Credentials are the username and password used to log in.
type Credentials struct {
	Username string
	Password string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Message string
	Token   string
}

// User is the profile of an account.
type User struct {
	ID          string
	Username    string
	Photo       string
	Video       string
	Link        string
	Mobile      string
	Gender      int
	Birthday    string
	Degree      string
	ArtCount    int
	FollowCount int
	FansCount   int
	LikeCount   int
}

// UserInfo is the profile response. It also carries a refreshed token.
type UserInfo struct {
	Message string
	Token   string
	User    User
}
