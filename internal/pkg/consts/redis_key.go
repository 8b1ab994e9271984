package consts

const (
	PostLikeKey       = "post:like:"
	PostCollectionKey = "post:collection:"
	PostViewKey       = "post:view:"
	PostDirtyKey      = "post:dirty"
)
