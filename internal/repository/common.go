package repository

import (
	"errors"
	"fmt"

	"Palisade/internal/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 允许做增量更新的计数列白名单，列名来自调用方常量而非请求参数
var counterColumns = map[string]struct{}{
	"views_count":    {},
	"likes_count":    {},
	"comments_count": {},
	"collects_count": {},
}

// applyCounterDelta 在事务内对帖子的冗余计数列做增量更新，下限钳制为 0。
// 计数是台账基数的缓存：历史脏数据导致的多余 -1 宁可少记，不允许出现负数。
func applyCounterDelta(tx *gorm.DB, postID uint64, column string, delta int) error {
	if _, ok := counterColumns[column]; !ok {
		return fmt.Errorf("不支持的计数列: %s", column)
	}
	expr := fmt.Sprintf("CASE WHEN %s + ? < 0 THEN 0 ELSE %s + ? END", column, column)
	// UpdateColumn 不触碰 updated_at，计数变化不算内容修改
	return tx.Model(&model.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(expr, delta, delta)).Error
}

// isDuplicateError 判断是否为唯一键冲突。
// MySQL 下为 1062，测试用的 sqlite 驱动经 gorm 翻译后为 ErrDuplicatedKey。
func isDuplicateError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
