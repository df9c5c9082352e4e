// Package replication 定义可复制的注册状态记录
//
// State 是 (标识, 负载) 二元组，供嵌入方自带的传输层在节点间同步注册表：
//   - 负载非空：一条注册的完整快照
//   - 负载为空：该标识已注销（墓碑）
//   - 标识为 HeartbeatID：心跳，不携带注册
//
// Codec 负责注册快照与 State 之间的转换。本包不包含任何传输、
// 帧格式或节点管理。
//
// 二进制格式（MarshalBinary）：
//
//	+----------------+-------------------+
//	| id (16 bytes)  | payload (N bytes) |
//	+----------------+-------------------+
//
// 负载首字节为编码标记，见 Codec。
package replication
