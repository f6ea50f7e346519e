package cache

import (
	"github.com/sirupsen/logrus"
)

// Persist 是同步器写入缓存的入口。写入失败只记录日志（cache_write_failed），
// 不影响已经成功的远程调用。Async 模式下立即返回，紧随其后的读取可能仍看到旧条目。
func (c *Coordinator) Persist(key Key, e Entry) {
	if !c.async {
		c.persist(key, e)
		return
	}
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		c.persist(key, e)
	}()
}

// Flush 等待所有后台写入完成。
func (c *Coordinator) Flush() {
	c.pending.Wait()
}

func (c *Coordinator) persist(key Key, e Entry) {
	fields := logrus.Fields{
		"action":    "cache_write",
		"cache_key": key.String(),
		"schema":    e.Schema,
		"codec":     e.Codec,
	}
	if err := c.Write(key, e); err != nil {
		fields["action"] = "cache_write_failed"
		c.logger.WithFields(fields).WithError(err).Warn("cache_write_failed")
		return
	}
	fields["bytes"] = len(e.Body)
	c.logger.WithFields(fields).Debug("cache_write")
}
