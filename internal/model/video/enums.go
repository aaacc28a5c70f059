package video

// Gender 话者性别
// 决定短视频中话者立绘从哪个素材池中选取
type Gender string

const (
	GenderWoman Gender = "woman"
	GenderMan   Gender = "man"
)

// Valid 判断性别取值是否合法
func (g Gender) Valid() bool {
	return g == GenderWoman || g == GenderMan
}

// SourceType 原稿来源类型（写入 Manuscript.Meta["type"]）
type SourceType string

const (
	SourceBulletinBoard       SourceType = "bulletin_board"        // 真实论坛串
	SourcePseudoBulletinBoard SourceType = "pseudo_bulletin_board" // LLM 仿写论坛串
	SourceTrivia              SourceType = "trivia"                // 冷知识
)
