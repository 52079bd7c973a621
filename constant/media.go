package constant

// TMDB public endpoints used to build links for intercepted media.
const (
	TMDBSite       = "https://www.themoviedb.org"
	TMDBImageBase  = "https://image.tmdb.org/t/p"
	PosterSize     = "w300"
	BackdropSize   = "w780"
	AlreadyExists  = "已存在"
	InterceptedMsg = "intercepted by subgate"
)

// Default CMS routes.
const (
	SubmitPath        = "/api/submedia/add"
	RelayPath         = "/api/cloud/add_share_down"
	LatestVersionPath = "/api/base/latest_version"
	DefaultProvider   = "nullbr"
)
