package linkedin

// Profile is the authenticated member's identity from the OpenID userinfo
// endpoint.
type Profile struct {
	Sub           string `json:"sub"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Picture       string `json:"picture"`
	// Locale is a string for some members and an object for others, so it
	// stays untyped.
	Locale interface{} `json:"locale"`
}

// Organization is a company page.
type Organization struct {
	ID                   int64  `json:"id"`
	LocalizedName        string `json:"localizedName"`
	VanityName           string `json:"vanityName"`
	LocalizedDescription string `json:"localizedDescription"`
	LocalizedWebsite     string `json:"localizedWebsite"`
	StaffCountRange      string `json:"staffCountRange"`
}

// PostRequest describes a new member post.
type PostRequest struct {
	// Author is the member URN the post is published as, e.g.
	// "urn:li:person:<sub>".
	Author string
	// Text is the post body.
	Text string
	// Visibility is PUBLIC or CONNECTIONS; defaults to PUBLIC.
	Visibility string
}

// Post is the created post as returned by the posts endpoint.
type Post struct {
	ID string `json:"id"`
}

// ShareStatistics are aggregate engagement numbers for an organization's
// shares.
type ShareStatistics struct {
	ShareCount      int64   `json:"shareCount"`
	LikeCount       int64   `json:"likeCount"`
	CommentCount    int64   `json:"commentCount"`
	ClickCount      int64   `json:"clickCount"`
	ImpressionCount int64   `json:"impressionCount"`
	Engagement      float64 `json:"engagement"`
}

// apiError is LinkedIn's error body shape.
type apiError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// wire shapes for the ugcPosts request body

type shareText struct {
	Text string `json:"text"`
}

type shareContent struct {
	ShareCommentary    shareText `json:"shareCommentary"`
	ShareMediaCategory string    `json:"shareMediaCategory"`
}

type specificContent struct {
	ShareContent shareContent `json:"com.linkedin.ugc.ShareContent"`
}

type ugcPostBody struct {
	Author          string            `json:"author"`
	LifecycleState  string            `json:"lifecycleState"`
	SpecificContent specificContent   `json:"specificContent"`
	Visibility      map[string]string `json:"visibility"`
}

type shareStatsEnvelope struct {
	Elements []struct {
		TotalShareStatistics ShareStatistics `json:"totalShareStatistics"`
	} `json:"elements"`
}
