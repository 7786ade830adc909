package domain

// IObject 最基础的对象接口，所有记录类型的根接口。
type IObject[T comparable] interface {
	// GetID 返回对象的唯一标识
	GetID() T
}

// IEntity 列表记录接口。
// 后端为每条记录分配整型自增主键；客户端只读取、不生成。
// 并发控制完全由后端负责，客户端不携带版本号。
type IEntity[T comparable] interface {
	IObject[T]
}

// IValidatable 可验证接口。
// 实现此接口的记录可在提交前验证自身状态，
// 验证失败的记录不会产生任何网络请求。
type IValidatable interface {
	// Validate 验证记录状态是否有效
	// 返回 error 表示验证失败，nil 表示验证成功
	Validate() error
}
