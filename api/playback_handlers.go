package api

import (
	"github.com/gin-gonic/gin"
)

// handleTogglePlayback 播放/停止
func (s *Server) handleTogglePlayback(c *gin.Context) {
	message := "播放已停止"
	if s.editor.TogglePlayback() {
		message = "开始播放"
	}
	ok(c, message, s.playbackStatus())
}

// handlePlaybackStatus 播放状态
func (s *Server) handlePlaybackStatus(c *gin.Context) {
	ok(c, "", s.playbackStatus())
}

func (s *Server) playbackStatus() PlaybackStatusResponse {
	snap := s.editor.Model().Snapshot()
	return PlaybackStatusResponse{
		Playing:     s.editor.IsPlaying(),
		Speed:       snap.PlaybackRate,
		ActiveFrame: snap.ActiveFrameIndex,
		Total:       len(snap.Frames),
	}
}
