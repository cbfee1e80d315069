package xrotate

import "errors"

var (
	// ErrEmptyFilename 文件名为空
	ErrEmptyFilename = errors.New("xrotate: filename is required")

	// ErrIsDirectory 文件名指向已存在的目录
	ErrIsDirectory = errors.New("xrotate: filename is a directory")

	// ErrInvalidMaxSize MaxSizeMB 必须在 1~10240 范围内
	ErrInvalidMaxSize = errors.New("xrotate: invalid MaxSizeMB")

	// ErrInvalidRetention MaxBackups/MaxAgeDays 为负数，或两者同时为 0
	ErrInvalidRetention = errors.New("xrotate: invalid retention")

	// ErrClosed 轮转器已关闭
	ErrClosed = errors.New("xrotate: rotator is closed")
)
