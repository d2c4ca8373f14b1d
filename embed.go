// embed.go - 资源嵌入声明
// 必须放在项目根目录（与 data/ 同级）
// 因为 //go:embed 指令只能嵌入当前包目录及其子目录的文件
package emberfx

import "embed"

// DataFS 嵌入的默认数据文件，由 cmd 通过 embedded.Init 注册
//
//go:embed data/viewer.yaml
var DataFS embed.FS
