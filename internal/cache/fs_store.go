package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/bazaar-realm/bazaar-client/internal/logging"
)

// Options 控制 Coordinator 的可选行为。
type Options struct {
	Logger *logrus.Logger
	// MetadataMemoEntries 为 0 时不启用内存元数据索引。
	MetadataMemoEntries int64
	// Async 为 true 时 Persist 在后台 goroutine 中落盘，需要 Flush 等待。
	Async bool
}

// Coordinator 管理缓存根目录下的全部条目；不做跨进程加锁，同一文件的并发写入
// 依赖 rename 的原子性，最后一次写入胜出。
type Coordinator struct {
	root   string
	logger *logrus.Logger
	memo   *metadataMemo
	async  bool
	now    func() time.Time

	dirs    sync.Map
	pending sync.WaitGroup
}

// NewCoordinator 以 root 为根目录构建缓存协调器，整个进程复用一份实例。
func NewCoordinator(root string, opts Options) (*Coordinator, error) {
	if root == "" {
		return nil, errors.New("cache root required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve cache root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}

	memo, err := newMetadataMemo(opts.MetadataMemoEntries)
	if err != nil {
		return nil, fmt.Errorf("create metadata memo: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Coordinator{
		root:   abs,
		logger: logger,
		memo:   memo,
		async:  opts.Async,
		now:    time.Now,
	}, nil
}

// Root 返回缓存根目录的绝对路径。
func (c *Coordinator) Root() string {
	return c.root
}

// EnsureDir 创建条目所在目录；首次成功后记住结果，后续调用不再访问文件系统。
func (c *Coordinator) EnsureDir(key Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	dir := key.dir(c.root)
	if _, ok := c.dirs.Load(dir); ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	c.dirs.Store(dir, struct{}{})
	return nil
}

// ReadBody 返回缓存正文。文件缺失返回 ErrNotFound；帧损坏或 schema/编码不匹配
// 返回 ErrCorrupt（同样满足 errors.Is(err, ErrNotFound)）。
func (c *Coordinator) ReadBody(key Key, schema uint16, codecName string) ([]byte, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(key.bodyPath(c.root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isDirErr(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read cache body: %w", err)
	}

	gotSchema, gotCodec, payload, err := decodeFrame(raw)
	if err != nil {
		return nil, err
	}
	if gotSchema != schema || gotCodec != codecName {
		return nil, fmt.Errorf("%w: stored schema %d codec %s, want schema %d codec %s",
			ErrCorrupt, gotSchema, gotCodec, schema, codecName)
	}
	return payload, nil
}

// ReadMetadata 优先查询内存索引，未命中时读取磁盘并回填索引。
func (c *Coordinator) ReadMetadata(key Key) (Metadata, error) {
	if err := key.Validate(); err != nil {
		return Metadata{}, err
	}
	if meta, ok := c.memo.get(key); ok {
		return meta, nil
	}

	raw, err := os.ReadFile(key.metadataPath(c.root))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || isDirErr(err) {
			return Metadata{}, ErrNotFound
		}
		return Metadata{}, fmt.Errorf("read cache metadata: %w", err)
	}
	var meta Metadata
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	c.memo.set(key, meta)
	return meta, nil
}

// Validator 返回可用于 If-None-Match 的 ETag；元数据缺失、损坏或由其它
// schema/编码写入时返回空串。
func (c *Coordinator) Validator(key Key, schema uint16, codecName string) string {
	meta, err := c.ReadMetadata(key)
	if err != nil || !meta.Matches(schema, codecName) {
		return ""
	}
	return meta.ETag
}

// Write 同步写入正文与元数据：先正文后元数据，两者各自原子替换。
func (c *Coordinator) Write(key Key, e Entry) error {
	if err := c.EnsureDir(key); err != nil {
		return err
	}
	framed, err := encodeFrame(e.Schema, e.Codec, e.Body)
	if err != nil {
		return err
	}
	if err := writeFileAtomic(key.bodyPath(c.root), framed); err != nil {
		return fmt.Errorf("write cache body: %w", err)
	}

	meta := metadataFor(e, c.now())
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode cache metadata: %w", err)
	}
	if err := writeFileAtomic(key.metadataPath(c.root), raw); err != nil {
		c.memo.del(key)
		return fmt.Errorf("write cache metadata: %w", err)
	}
	c.memo.set(key, meta)
	return nil
}

// Close 等待后台写入并释放内存索引。
func (c *Coordinator) Close() {
	c.Flush()
	c.memo.close()
}

func writeFileAtomic(filePath string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(filePath), ".cache-*")
	if err != nil {
		return err
	}
	tempName := tempFile.Name()

	_, err = tempFile.Write(data)
	closeErr := tempFile.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return err
	}

	if err := os.Rename(tempName, filePath); err != nil {
		os.Remove(tempName)
		return err
	}
	return nil
}

func isDirErr(err error) bool {
	var pathErr *fs.PathError
	if !errors.As(err, &pathErr) {
		return false
	}
	info, statErr := os.Stat(pathErr.Path)
	return statErr == nil && info.IsDir()
}
