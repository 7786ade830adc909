package listing

import "fmt"

// MessageKind 消息类别
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message 瞬态操作反馈，展示一段时间后自动消失。
// 新消息会顶掉并重新计时旧消息。
type Message struct {
	Kind MessageKind
	Text string
}

// 用户可见的消息文案。占位符为实体名（"sản phẩm"、"danh mục"…）。
const (
	msgCreateOK   = "Thêm %s thành công!"
	msgCreateFail = "Lỗi khi thêm %s"
	msgUpdateOK   = "Cập nhật %s thành công!"
	msgUpdateFail = "Lỗi khi cập nhật %s"
	msgRemoveOK   = "Xóa %s thành công!"
	msgRemoveFail = "Lỗi khi xóa %s"
	msgToggleOK   = "Cập nhật trạng thái %s thành công!"
	msgToggleFail = "Lỗi khi cập nhật trạng thái %s"
	msgLoadFail   = "Lỗi khi tải danh sách %s"
	msgFormFail   = "Lỗi khi tải dữ liệu form %s"
)

func formatMsg(tmpl, label string) string {
	return fmt.Sprintf(tmpl, label)
}
