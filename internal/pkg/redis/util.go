package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// 计数缓存是纯加速层，客户端未初始化时所有读写直接走 miss 路径
var errNoClient = errors.New("redis 客户端未初始化")

// SetWithExpiration 设置键值对并设置过期时间
func SetWithExpiration(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Rdb == nil {
		return errNoClient
	}
	return Rdb.Set(ctx, key, value, expiration).Err()
}

// GetValue 获取字符串类型的值
func GetValue(ctx context.Context, key string) (string, error) {
	if Rdb == nil {
		return "", errNoClient
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// GetInt64 获取整型值，键不存在视为缓存未命中
func GetInt64(ctx context.Context, key string) (int64, error) {
	if Rdb == nil {
		return 0, errNoClient
	}
	value, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(value, 10, 64)
}

// IncrBy 对已存在的计数键做增量，键不存在时不创建（由 DB 回源重建）
func IncrBy(ctx context.Context, key string, delta int64) error {
	if Rdb == nil {
		return errNoClient
	}
	exists, err := Rdb.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return err
	}
	return Rdb.IncrBy(ctx, key, delta).Err()
}

// SAdd 向集合添加成员
func SAdd(ctx context.Context, key string, members ...interface{}) error {
	if Rdb == nil {
		return errNoClient
	}
	return Rdb.SAdd(ctx, key, members...).Err()
}

// GetSet 获取集合全部成员
func GetSet(ctx context.Context, key string) ([]string, error) {
	if Rdb == nil {
		return nil, errNoClient
	}
	value, err := Rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Rename 重命名键
func Rename(ctx context.Context, oldKey string, newKey string) error {
	if Rdb == nil {
		return errNoClient
	}
	return Rdb.Rename(ctx, oldKey, newKey).Err()
}

// DeleteKey 删除一个键
func DeleteKey(ctx context.Context, key string) error {
	if Rdb == nil {
		return errNoClient
	}
	return Rdb.Del(ctx, key).Err()
}
