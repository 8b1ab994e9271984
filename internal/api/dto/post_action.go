package dto

// PostActionResultDTO 点赞/收藏翻转后的状态
type PostActionResultDTO struct {
	PostID uint64 `json:"post_id"`
	Active bool   `json:"active"`
}

// PostActionStateDTO 帖子详情页的全量交互状态
type PostActionStateDTO struct {
	LikeCount    int64 `json:"like_count"`
	CollectCount int64 `json:"collect_count"`
	ViewCount    int64 `json:"view_count"`
	IsLiked      bool  `json:"is_liked"`
	IsCollected  bool  `json:"is_collected"`
}
