package consts

const (
	PostStatusNormal int8 = 1
	PostStatusLocked int8 = 2
)
