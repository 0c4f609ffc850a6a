package command

// internalCommands are reply prefixes and module housekeeping opcodes seen in raw traffic
func internalCommands() []*Descriptor {
	internal := func(name, summary string) *Descriptor {
		return &Descriptor{
			Name:     name,
			Params:   "[arg ...]",
			Summary:  summary,
			Since:    UndefinedVersion,
			MinArgs:  0,
			MaxArgs:  UnboundedArgs,
			Category: Internal,
			Group:    GroupInternal,
			Handler:  Silent,
		}
	}
	return []*Descriptor{
		internal("post", "Cross protocol scripting guard"),
		internal("host:", "Cross protocol scripting guard"),
		internal("JSON._cacheinit", "RedisJSON cache initialization"),
		internal("JSON._cacheinfo", "RedisJSON cache statistics"),
		internal("FT.SETPAYLOAD", "RediSearch internal payload update"),
		internal("FT.SAFEADD", "RediSearch internal document add"),
		internal("FT.SAFEADDHASH", "RediSearch internal hash add"),
		internal("FT.DTADD", "RediSearch internal document table add"),
		internal("FT.TERMADD", "RediSearch internal term add"),
		internal("PFSELFTEST", "HyperLogLog self test"),
	}
}
