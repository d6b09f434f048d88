// Package linecodec 实现换行分隔的文本命令编解码
//
// 线格式：ASCII 文本，每行一条命令，以 '\n' 结尾；无转义、无长度前缀、无校验。
//
// 编码只追加一个换行符。解码按换行切分，只交付完整行；
// 末尾未终结的片段缓存到下一次读取。空行被忽略（不是错误）。
//
// 以保留标记开头的行（第一个逗号分隔字段，例如 PROXIMITY）由 Classify
// 识别为控制信号，与普通遥测行区分开。
package linecodec
