package dto

// PostCreateDTO 发布帖子请求
type PostCreateDTO struct {
	Title      string `json:"title" binding:"required,max=255"`
	Content    string `json:"content" binding:"required"`
	Tags       string `json:"tags" binding:"max=255"`
	CategoryID uint64 `json:"category_id"`
}

// PostUpdateDTO 编辑帖子请求，保存前会自动归档当前版本
type PostUpdateDTO struct {
	Title      string `json:"title" binding:"required,max=255"`
	Content    string `json:"content" binding:"required"`
	Tags       string `json:"tags" binding:"max=255"`
	CategoryID uint64 `json:"category_id"`
}

// PostDTO 帖子返回详情
type PostDTO struct {
	ID            uint64 `json:"id"`
	UserID        uint64 `json:"user_id"`
	CategoryID    uint64 `json:"category_id"`
	Title         string `json:"title"`
	Content       string `json:"content"`
	Tags          string `json:"tags"`
	ViewsCount    int    `json:"views_count"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
	CollectsCount int    `json:"collects_count"`
	Status        int8   `json:"status"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// PostListDTO 帖子列表
type PostListDTO struct {
	List    []*PostDTO `json:"list"`
	HasMore bool       `json:"has_more"`
}

// PostStatusDTO 管理端修改帖子状态请求
type PostStatusDTO struct {
	Status int8 `json:"status" binding:"required,oneof=1 2"`
}

// PostUpdateResultDTO 编辑结果，返回本次归档的版本号
type PostUpdateResultDTO struct {
	PostID  uint64 `json:"post_id"`
	Version int    `json:"version"`
}
