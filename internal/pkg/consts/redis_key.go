package consts

const (
	UserAffinityKey      = "user:affinity:"      // ZSET member=authorID score=亲和度
	UserAffinityDirtyKey = "user:affinity:dirty" // 待回刷快照的用户集合
	EngagementCapKey     = "engagement:cap:"     // engagement:cap:{uid}:{date}:{category}
	EngagementIdemKey    = "engagement:idem:"    // 动作幂等键
	TokenRevokedKey      = "token:revoked:"      // 已注销 token 签名
)

const (
	EngagementUserLock = "lock:engagement:user:"
)
