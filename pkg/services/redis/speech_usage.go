package redisservice

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const speechServiceRedisKey = Prefix + "speechService"

// ConnectionsByKeyId returns the number of live recognition connections the
// given subscription key currently serves.
func (s *RedisService) ConnectionsByKeyId(keyId string) (int64, error) {
	keyStatus := fmt.Sprintf("%s:%s:connections", speechServiceRedisKey, keyId)
	conns, err := s.rc.Get(s.ctx, keyStatus).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		return 0, err
	}

	c, err := strconv.ParseInt(conns, 10, 64)
	if err != nil {
		return 0, err
	}
	return c, nil
}

func (s *RedisService) IncrKeyConnections(keyId string) error {
	keyStatus := fmt.Sprintf("%s:%s:connections", speechServiceRedisKey, keyId)
	_, err := s.rc.Incr(s.ctx, keyStatus).Result()
	return err
}

func (s *RedisService) DecrKeyConnections(keyId string) error {
	keyStatus := fmt.Sprintf("%s:%s:connections", speechServiceRedisKey, keyId)
	_, err := s.rc.Decr(s.ctx, keyStatus).Result()
	return err
}

// SpeechSessionStarted records the start timestamp of a recognition session,
// which SpeechSessionEnded later turns into usage seconds.
func (s *RedisService) SpeechSessionStarted(sessionId string) error {
	key := fmt.Sprintf("%s:usage", speechServiceRedisKey)
	_, err := s.rc.HSet(s.ctx, key, sessionId, time.Now().Unix()).Result()
	return err
}

// SpeechSessionEnded computes the usage of a finished session, adds it to the
// running total and removes the per-session entry. It returns the usage in
// seconds.
func (s *RedisService) SpeechSessionEnded(sessionId string) (int64, error) {
	key := fmt.Sprintf("%s:usage", speechServiceRedisKey)

	var usage int64
	err := s.rc.Watch(s.ctx, func(tx *redis.Tx) error {
		_, err := tx.TxPipelined(s.ctx, func(pipe redis.Pipeliner) error {
			var start int64
			if ss, err := tx.HGet(s.ctx, key, sessionId).Result(); err == nil && ss != "" {
				start, _ = strconv.ParseInt(ss, 10, 64)
			}
			if start > 0 {
				usage = time.Now().Unix() - start
				_, _ = pipe.HIncrBy(s.ctx, key, "total_usage", usage).Result()
			}
			_, _ = pipe.HDel(s.ctx, key, sessionId).Result()
			return nil
		})
		return err
	}, key)

	if err != nil {
		return 0, err
	}
	return usage, nil
}

func (s *RedisService) SpeechGetTotalUsage() (int64, error) {
	key := fmt.Sprintf("%s:usage", speechServiceRedisKey)
	ss, err := s.rc.HGet(s.ctx, key, "total_usage").Result()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, nil
	case err != nil:
		return 0, err
	}

	c, err := strconv.ParseInt(ss, 10, 64)
	if err != nil {
		return 0, err
	}
	return c, nil
}
