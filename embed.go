package quill

import "embed"

// EmbeddedAssets contains browser assets shipped with the framework:
// editor.js (markdown editor state + toolbar), toast.js (notifications)
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
