package dto

// RevisionDTO 历史版本详情。内容是归档那一刻修改前的帖子状态
type RevisionDTO struct {
	PostID        uint64 `json:"post_id"`
	Version       int    `json:"version"`
	CategoryID    uint64 `json:"category_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Tags          string `json:"tags"`
	ViewsCount    int    `json:"views_count"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	CollectsCount int    `json:"collects_count"`
	Status        int8   `json:"status"`
	ArchivedAt    string `json:"archived_at"`
}

// RevisionListDTO 版本列表，按版本号倒序
type RevisionListDTO struct {
	List    []*RevisionDTO `json:"list"`
	HasMore bool           `json:"has_more"`
}

// RestoreReq 回滚请求
type RestoreReq struct {
	Version int `json:"version" binding:"required,min=1"`
}

// RestoreResultDTO 回滚结果。ArchivedVersion 是回滚前状态新落的版本号
type RestoreResultDTO struct {
	Post            *PostDTO `json:"post"`
	ArchivedVersion int      `json:"archived_version"`
}
