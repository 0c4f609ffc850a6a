package command

type option func(d *Descriptor)

func handler(h Handler) option {
	return func(d *Descriptor) { d.Handler = h }
}

func validate(validators ...Validator) option {
	return func(d *Descriptor) { d.Validators = append(d.Validators, validators...) }
}

func example(e string) option {
	return func(d *Descriptor) { d.Example = e }
}

func extended(d *Descriptor) {
	d.Category = Extended
}

func def(group Group, name, params string, min, max int, since Version, summary string, opts ...option) *Descriptor {
	d := &Descriptor{
		Name:     name,
		Params:   params,
		Summary:  summary,
		Since:    since,
		MinArgs:  min,
		MaxArgs:  max,
		Category: Native,
		Group:    group,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func ver(major, minor, patch uint32) Version {
	return MakeVersion(major, minor, patch)
}

const inf = UnboundedArgs

var zaddFlags = []string{"NX", "XX", "GT", "LT", "CH", "INCR"}

func redisCommands() []*Descriptor {
	var cmds []*Descriptor
	add := func(list ...*Descriptor) {
		cmds = append(cmds, list...)
	}

	k := GroupKeyspace
	add(
		def(k, "DEL", "key [key ...]", 1, inf, ver(1, 0, 0), "Delete a key",
			handler(delHandler), example("DEL key1 key2 key3")),
		def(k, "DUMP", "key", 1, 0, ver(2, 6, 0), "Return a serialized version of the value stored at the specified key"),
		def(k, "EXISTS", "key [key ...]", 1, inf, ver(1, 0, 0), "Determine if a key exists"),
		def(k, "EXPIRE", "key seconds", 2, 0, ver(1, 0, 0), "Set a key's time to live in seconds",
			handler(expireHandler), validate(IntegerAt(1)), example("EXPIRE mykey 10")),
		def(k, "EXPIREAT", "key timestamp", 2, 0, ver(1, 2, 0), "Set the expiration for a key as a UNIX timestamp",
			validate(IntegerAt(1))),
		def(k, "KEYS", "pattern", 1, 0, ver(1, 0, 0), "Find all keys matching the given pattern"),
		def(k, "MIGRATE", "host port key|\"\" destination-db timeout [COPY] [REPLACE] [KEYS key ...]", 5, inf, ver(2, 6, 0),
			"Atomically transfer a key from a Redis instance to another one", validate(IntegerAt(1), IntegerAt(3), IntegerAt(4))),
		def(k, "MOVE", "key db", 2, 0, ver(1, 0, 0), "Move a key to another database", validate(IntegerAt(1))),
		def(k, "OBJECT", "subcommand [arguments [arguments ...]]", 1, inf, ver(2, 2, 3), "Inspect the internals of Redis objects"),
		def(k, "PERSIST", "key", 1, 0, ver(2, 2, 0), "Remove the expiration from a key", handler(persistHandler)),
		def(k, "PEXPIRE", "key milliseconds", 2, 0, ver(2, 6, 0), "Set a key's time to live in milliseconds",
			validate(IntegerAt(1))),
		def(k, "PEXPIREAT", "key milliseconds-timestamp", 2, 0, ver(2, 6, 0),
			"Set the expiration for a key as a UNIX timestamp specified in milliseconds", validate(IntegerAt(1))),
		def(k, "PTTL", "key", 1, 0, ver(2, 6, 0), "Get the time to live for a key in milliseconds"),
		def(k, "RANDOMKEY", "", 0, 0, ver(1, 0, 0), "Return a random key from the keyspace"),
		def(k, "RENAME", "key newkey", 2, 0, ver(1, 0, 0), "Rename a key",
			handler(renameHandler), example("RENAME mykey myotherkey")),
		def(k, "RENAMENX", "key newkey", 2, 0, ver(1, 0, 0), "Rename a key, only if the new key does not exist"),
		def(k, "RESTORE", "key ttl serialized-value [REPLACE]", 3, 1, ver(2, 6, 0),
			"Create a key using the provided serialized value", validate(IntegerAt(1), OneOf(3, "REPLACE"))),
		def(k, "SCAN", "cursor [MATCH pattern] [COUNT count]", 1, 4, ver(2, 8, 0), "Incrementally iterate the keys space",
			handler(scanHandler), validate(IntegerAt(0), Pairs(1, 2), IntegerOption(1, "COUNT")), example("SCAN 0 MATCH user:* COUNT 100")),
		def(k, "SORT", "key [BY pattern] [LIMIT offset count] [GET pattern [GET pattern ...]] [ASC|DESC] [ALPHA] [STORE destination]",
			1, inf, ver(1, 0, 0), "Sort the elements in a list, set or sorted set"),
		def(k, "TOUCH", "key [key ...]", 1, inf, ver(3, 2, 1), "Alters the last access time of a key(s)"),
		def(k, "TTL", "key", 1, 0, ver(1, 0, 0), "Get the time to live for a key", handler(ttlHandler)),
		def(k, "TYPE", "key", 1, 0, ver(1, 0, 0), "Determine the type stored at key"),
		def(k, "UNLINK", "key [key ...]", 1, inf, ver(4, 0, 0), "Delete a key asynchronously in another thread"),
		def(k, "WAIT", "numreplicas timeout", 2, 0, ver(3, 0, 0),
			"Wait for the synchronous replication of all the write commands sent in the context of the current connection",
			validate(IntegerAt(0), IntegerAt(1))),
		def(k, "GETUNI", "key", 1, 0, UndefinedVersion, "Get the value of a key whatever its type",
			extended, handler(getUniHandler), example("GETUNI mykey")),
	)

	s := GroupString
	add(
		def(s, "APPEND", "key value", 2, 0, ver(2, 0, 0), "Append a value to a key"),
		def(s, "BITCOUNT", "key [start end]", 1, 2, ver(2, 6, 0), "Count set bits in a string",
			validate(IntegerAt(1), IntegerAt(2))),
		def(s, "BITFIELD", "key [GET type offset] [SET type offset value] [INCRBY type offset increment] [OVERFLOW WRAP|SAT|FAIL]",
			1, inf, ver(3, 2, 0), "Perform arbitrary bitfield integer operations on strings"),
		def(s, "BITOP", "operation destkey key [key ...]", 3, inf, ver(2, 6, 0), "Perform bitwise operations between strings",
			validate(OneOf(0, "AND", "OR", "XOR", "NOT"))),
		def(s, "BITPOS", "key bit [start] [end]", 2, 2, ver(2, 8, 7), "Find first bit set or clear in a string",
			validate(OneOf(1, "0", "1"), IntegerAt(2), IntegerAt(3))),
		def(s, "DECR", "key", 1, 0, ver(1, 0, 0), "Decrement the integer value of a key by one"),
		def(s, "DECRBY", "key decrement", 2, 0, ver(1, 0, 0), "Decrement the integer value of a key by the given number",
			validate(IntegerAt(1))),
		def(s, "GET", "key", 1, 0, ver(1, 0, 0), "Get the value of a key", handler(getHandler), example("GET mykey")),
		def(s, "GETBIT", "key offset", 2, 0, ver(2, 2, 0), "Returns the bit value at offset in the string value stored at key",
			validate(IntegerAt(1))),
		def(s, "GETRANGE", "key start end", 3, 0, ver(2, 4, 0), "Get a substring of the string stored at a key",
			validate(IntegerAt(1), IntegerAt(2))),
		def(s, "GETSET", "key value", 2, 0, ver(1, 0, 0), "Set the string value of a key and return its old value"),
		def(s, "INCR", "key", 1, 0, ver(1, 0, 0), "Increment the integer value of a key by one"),
		def(s, "INCRBY", "key increment", 2, 0, ver(1, 0, 0), "Increment the integer value of a key by the given amount",
			validate(IntegerAt(1))),
		def(s, "INCRBYFLOAT", "key increment", 2, 0, ver(2, 6, 0), "Increment the float value of a key by the given amount",
			validate(FloatAt(1)), example("INCRBYFLOAT mykey 0.1")),
		def(s, "MGET", "key [key ...]", 1, inf, ver(1, 0, 0), "Get the values of all the given keys"),
		def(s, "MSET", "key value [key value ...]", 2, inf, ver(1, 0, 1), "Set multiple keys to multiple values",
			validate(EvenFrom(0))),
		def(s, "MSETNX", "key value [key value ...]", 2, inf, ver(1, 0, 1),
			"Set multiple keys to multiple values, only if none of the keys exist", validate(EvenFrom(0))),
		def(s, "PSETEX", "key milliseconds value", 3, 0, ver(2, 6, 0), "Set the value and expiration in milliseconds of a key",
			validate(IntegerAt(1))),
		def(s, "SET", "key value [EX seconds|PX milliseconds|KEEPTTL] [NX|XX] [GET]", 2, 5, ver(1, 0, 0),
			"Set the string value of a key", handler(setHandler), example("SET mykey \"Hello\"")),
		def(s, "SETBIT", "key offset value", 3, 0, ver(2, 2, 0), "Sets or clears the bit at offset in the string value stored at key",
			validate(IntegerAt(1), OneOf(2, "0", "1"))),
		def(s, "SETEX", "key seconds value", 3, 0, ver(2, 0, 0), "Set the value and expiration of a key",
			validate(IntegerAt(1))),
		def(s, "SETNX", "key value", 2, 0, ver(1, 0, 0), "Set the value of a key, only if the key does not exist"),
		def(s, "SETRANGE", "key offset value", 3, 0, ver(2, 2, 0),
			"Overwrite part of a string at key starting at the specified offset", validate(IntegerAt(1))),
		def(s, "STRLEN", "key", 1, 0, ver(2, 2, 0), "Get the length of the value stored in a key"),
	)

	l := GroupList
	add(
		def(l, "BLPOP", "key [key ...] timeout", 2, inf, ver(2, 0, 0),
			"Remove and get the first element in a list, or block until one is available"),
		def(l, "BRPOP", "key [key ...] timeout", 2, inf, ver(2, 0, 0),
			"Remove and get the last element in a list, or block until one is available"),
		def(l, "BRPOPLPUSH", "source destination timeout", 3, 0, ver(2, 2, 0),
			"Pop an element from a list, push it to another list and return it; or block until one is available",
			validate(IntegerAt(2))),
		def(l, "LINDEX", "key index", 2, 0, ver(1, 0, 0), "Get an element from a list by its index", validate(IntegerAt(1))),
		def(l, "LINSERT", "key BEFORE|AFTER pivot element", 4, 0, ver(2, 2, 0),
			"Insert an element before or after another element in a list", validate(OneOf(1, "BEFORE", "AFTER"))),
		def(l, "LLEN", "key", 1, 0, ver(1, 0, 0), "Get the length of a list"),
		def(l, "LPOP", "key [count]", 1, 1, ver(1, 0, 0), "Remove and get the first elements in a list", validate(IntegerAt(1))),
		def(l, "LPUSH", "key element [element ...]", 2, inf, ver(1, 0, 0), "Prepend one or multiple elements to a list"),
		def(l, "LPUSHX", "key element [element ...]", 2, inf, ver(2, 2, 0), "Prepend an element to a list, only if the list exists"),
		def(l, "LRANGE", "key start stop", 3, 0, ver(1, 0, 0), "Get a range of elements from a list",
			validate(IntegerAt(1), IntegerAt(2)), example("LRANGE mylist 0 -1")),
		def(l, "LREM", "key count element", 3, 0, ver(1, 0, 0), "Remove elements from a list", validate(IntegerAt(1))),
		def(l, "LSET", "key index element", 3, 0, ver(1, 0, 0), "Set the value of an element in a list by its index",
			validate(IntegerAt(1))),
		def(l, "LTRIM", "key start stop", 3, 0, ver(1, 0, 0), "Trim a list to the specified range",
			validate(IntegerAt(1), IntegerAt(2))),
		def(l, "RPOP", "key [count]", 1, 1, ver(1, 0, 0), "Remove and get the last elements in a list", validate(IntegerAt(1))),
		def(l, "RPOPLPUSH", "source destination", 2, 0, ver(1, 2, 0),
			"Remove the last element in a list, prepend it to another list and return it"),
		def(l, "RPUSH", "key element [element ...]", 2, inf, ver(1, 0, 0), "Append one or multiple elements to a list"),
		def(l, "RPUSHX", "key element [element ...]", 2, inf, ver(2, 2, 0), "Append an element to a list, only if the list exists"),
		def(l, "LFASTOSET", "key element [element ...]", 2, inf, UndefinedVersion,
			"Replace a list with the given elements, keeping its time to live", extended, handler(listReplace)),
	)

	st := GroupSet
	add(
		def(st, "SADD", "key member [member ...]", 2, inf, ver(1, 0, 0), "Add one or more members to a set"),
		def(st, "SCARD", "key", 1, 0, ver(1, 0, 0), "Get the number of members in a set"),
		def(st, "SDIFF", "key [key ...]", 1, inf, ver(1, 0, 0), "Subtract multiple sets"),
		def(st, "SDIFFSTORE", "destination key [key ...]", 2, inf, ver(1, 0, 0), "Subtract multiple sets and store the resulting set in a key"),
		def(st, "SINTER", "key [key ...]", 1, inf, ver(1, 0, 0), "Intersect multiple sets"),
		def(st, "SINTERSTORE", "destination key [key ...]", 2, inf, ver(1, 0, 0), "Intersect multiple sets and store the resulting set in a key"),
		def(st, "SISMEMBER", "key member", 2, 0, ver(1, 0, 0), "Determine if a given value is a member of a set"),
		def(st, "SMEMBERS", "key", 1, 0, ver(1, 0, 0), "Get all the members in a set"),
		def(st, "SMOVE", "source destination member", 3, 0, ver(1, 0, 0), "Move a member from one set to another"),
		def(st, "SPOP", "key [count]", 1, 1, ver(1, 0, 0), "Remove and return one or multiple random members from a set",
			validate(IntegerAt(1))),
		def(st, "SRANDMEMBER", "key [count]", 1, 1, ver(1, 0, 0), "Get one or multiple random members from a set",
			validate(IntegerAt(1))),
		def(st, "SREM", "key member [member ...]", 2, inf, ver(1, 0, 0), "Remove one or more members from a set"),
		def(st, "SSCAN", "key cursor [MATCH pattern] [COUNT count]", 2, 4, ver(2, 8, 0), "Incrementally iterate Set elements",
			validate(IntegerAt(1), Pairs(2, 2), IntegerOption(2, "COUNT"))),
		def(st, "SUNION", "key [key ...]", 1, inf, ver(1, 0, 0), "Add multiple sets"),
		def(st, "SUNIONSTORE", "destination key [key ...]", 2, inf, ver(1, 0, 0), "Add multiple sets and store the resulting set in a key"),
		def(st, "SFASTOSET", "key member [member ...]", 2, inf, UndefinedVersion,
			"Replace a set with the given members, keeping its time to live", extended, handler(setReplace)),
	)

	h := GroupHash
	add(
		def(h, "HDEL", "key field [field ...]", 2, inf, ver(2, 0, 0), "Delete one or more hash fields"),
		def(h, "HEXISTS", "key field", 2, 0, ver(2, 0, 0), "Determine if a hash field exists"),
		def(h, "HGET", "key field", 2, 0, ver(2, 0, 0), "Get the value of a hash field"),
		def(h, "HGETALL", "key", 1, 0, ver(2, 0, 0), "Get all the fields and values in a hash"),
		def(h, "HINCRBY", "key field increment", 3, 0, ver(2, 0, 0), "Increment the integer value of a hash field by the given number",
			validate(IntegerAt(2))),
		def(h, "HINCRBYFLOAT", "key field increment", 3, 0, ver(2, 6, 0), "Increment the float value of a hash field by the given amount",
			validate(FloatAt(2))),
		def(h, "HKEYS", "key", 1, 0, ver(2, 0, 0), "Get all the fields in a hash"),
		def(h, "HLEN", "key", 1, 0, ver(2, 0, 0), "Get the number of fields in a hash"),
		def(h, "HMGET", "key field [field ...]", 2, inf, ver(2, 0, 0), "Get the values of all the given hash fields"),
		def(h, "HMSET", "key field value [field value ...]", 3, inf, ver(2, 0, 0), "Set multiple hash fields to multiple values",
			validate(EvenFrom(1))),
		def(h, "HSET", "key field value [field value ...]", 3, inf, ver(2, 0, 0), "Set the string value of a hash field",
			validate(EvenFrom(1)), example("HSET myhash field1 \"Hello\"")),
		def(h, "HSETNX", "key field value", 3, 0, ver(2, 0, 0), "Set the value of a hash field, only if the field does not exist"),
		def(h, "HSTRLEN", "key field", 2, 0, ver(3, 2, 0), "Get the length of the value of a hash field"),
		def(h, "HVALS", "key", 1, 0, ver(2, 0, 0), "Get all the values in a hash"),
		def(h, "HSCAN", "key cursor [MATCH pattern] [COUNT count]", 2, 4, ver(2, 8, 0), "Incrementally iterate hash fields and associated values",
			validate(IntegerAt(1), Pairs(2, 2), IntegerOption(2, "COUNT"))),
		def(h, "HFASTOSET", "key field value [field value ...]", 3, inf, UndefinedVersion,
			"Replace a hash with the given fields, keeping its time to live", extended, handler(hashReplace), validate(EvenFrom(1))),
	)

	z := GroupSortedSet
	add(
		def(z, "BZPOPMAX", "key [key ...] timeout", 2, inf, ver(5, 0, 0),
			"Remove and return the member with the highest score from one or more sorted sets, or block until one is available"),
		def(z, "BZPOPMIN", "key [key ...] timeout", 2, inf, ver(5, 0, 0),
			"Remove and return the member with the lowest score from one or more sorted sets, or block until one is available"),
		def(z, "ZADD", "key [NX|XX] [GT|LT] [CH] [INCR] score member [score member ...]", 3, inf, ver(1, 2, 0),
			"Add one or more members to a sorted set, or update its score if it already exists",
			validate(ScoredPairsFrom(1, zaddFlags...)), example("ZADD myzset 1 \"one\"")),
		def(z, "ZCARD", "key", 1, 0, ver(1, 2, 0), "Get the number of members in a sorted set"),
		def(z, "ZCOUNT", "key min max", 3, 0, ver(2, 0, 0), "Count the members in a sorted set with scores within the given values"),
		def(z, "ZINCRBY", "key increment member", 3, 0, ver(1, 2, 0), "Increment the score of a member in a sorted set",
			validate(FloatAt(1))),
		def(z, "ZINTERSTORE", "destination numkeys key [key ...] [WEIGHTS weight [weight ...]] [AGGREGATE SUM|MIN|MAX]",
			3, inf, ver(2, 0, 0), "Intersect multiple sorted sets and store the resulting sorted set in a new key",
			validate(IntegerAt(1))),
		def(z, "ZLEXCOUNT", "key min max", 3, 0, ver(2, 8, 9), "Count the number of members in a sorted set between a given lexicographical range"),
		def(z, "ZPOPMAX", "key [count]", 1, 1, ver(5, 0, 0), "Remove and return members with the highest scores in a sorted set",
			validate(IntegerAt(1))),
		def(z, "ZPOPMIN", "key [count]", 1, 1, ver(5, 0, 0), "Remove and return members with the lowest scores in a sorted set",
			validate(IntegerAt(1))),
		def(z, "ZRANGE", "key start stop [WITHSCORES]", 3, 1, ver(1, 2, 0), "Return a range of members in a sorted set, by index",
			validate(IntegerAt(1), IntegerAt(2), OneOf(3, "WITHSCORES")), example("ZRANGE myzset 0 -1 WITHSCORES")),
		def(z, "ZRANGEBYLEX", "key min max [LIMIT offset count]", 3, 3, ver(2, 8, 9),
			"Return a range of members in a sorted set, by lexicographical range"),
		def(z, "ZRANGEBYSCORE", "key min max [WITHSCORES] [LIMIT offset count]", 3, 4, ver(1, 0, 5),
			"Return a range of members in a sorted set, by score"),
		def(z, "ZRANK", "key member", 2, 0, ver(2, 0, 0), "Determine the index of a member in a sorted set"),
		def(z, "ZREM", "key member [member ...]", 2, inf, ver(1, 2, 0), "Remove one or more members from a sorted set"),
		def(z, "ZREMRANGEBYLEX", "key min max", 3, 0, ver(2, 8, 9),
			"Remove all members in a sorted set between the given lexicographical range"),
		def(z, "ZREMRANGEBYRANK", "key start stop", 3, 0, ver(2, 0, 0),
			"Remove all members in a sorted set within the given indexes", validate(IntegerAt(1), IntegerAt(2))),
		def(z, "ZREMRANGEBYSCORE", "key min max", 3, 0, ver(1, 2, 0), "Remove all members in a sorted set within the given scores"),
		def(z, "ZREVRANGE", "key start stop [WITHSCORES]", 3, 1, ver(1, 2, 0),
			"Return a range of members in a sorted set, by index, with scores ordered from high to low",
			validate(IntegerAt(1), IntegerAt(2), OneOf(3, "WITHSCORES"))),
		def(z, "ZREVRANGEBYLEX", "key max min [LIMIT offset count]", 3, 3, ver(2, 8, 9),
			"Return a range of members in a sorted set, by lexicographical range, ordered from higher to lower strings"),
		def(z, "ZREVRANGEBYSCORE", "key max min [WITHSCORES] [LIMIT offset count]", 3, 4, ver(2, 2, 0),
			"Return a range of members in a sorted set, by score, with scores ordered from high to low"),
		def(z, "ZREVRANK", "key member", 2, 0, ver(2, 0, 0),
			"Determine the index of a member in a sorted set, with scores ordered from high to low"),
		def(z, "ZSCORE", "key member", 2, 0, ver(1, 2, 0), "Get the score associated with the given member in a sorted set"),
		def(z, "ZUNIONSTORE", "destination numkeys key [key ...] [WEIGHTS weight [weight ...]] [AGGREGATE SUM|MIN|MAX]",
			3, inf, ver(2, 0, 0), "Add multiple sorted sets and store the resulting sorted set in a new key",
			validate(IntegerAt(1))),
		def(z, "ZSCAN", "key cursor [MATCH pattern] [COUNT count]", 2, 4, ver(2, 8, 0),
			"Incrementally iterate sorted sets elements and associated scores", validate(IntegerAt(1), Pairs(2, 2), IntegerOption(2, "COUNT"))),
		def(z, "ZFASTOSET", "key score member [score member ...]", 3, inf, UndefinedVersion,
			"Replace a sorted set with the given members, keeping its time to live",
			extended, handler(zsetReplace), validate(ScoredPairsFrom(1))),
	)

	hll := GroupHyperLogLog
	add(
		def(hll, "PFADD", "key element [element ...]", 1, inf, ver(2, 8, 9), "Adds the specified elements to the specified HyperLogLog"),
		def(hll, "PFCOUNT", "key [key ...]", 1, inf, ver(2, 8, 9),
			"Return the approximated cardinality of the set(s) observed by the HyperLogLog at key(s)"),
		def(hll, "PFMERGE", "destkey sourcekey [sourcekey ...]", 1, inf, ver(2, 8, 9),
			"Merge N different HyperLogLogs into a single one"),
	)

	g := GroupGeo
	add(
		def(g, "GEOADD", "key longitude latitude member [longitude latitude member ...]", 4, inf, ver(3, 2, 0),
			"Add one or more geospatial items in the geospatial index represented using a sorted set",
			validate(Pairs(1, 3), FloatAt(1), FloatAt(2))),
		def(g, "GEODIST", "key member1 member2 [m|km|ft|mi]", 3, 1, ver(3, 2, 0),
			"Returns the distance between two members of a geospatial index", validate(OneOf(3, "m", "km", "ft", "mi"))),
		def(g, "GEOHASH", "key member [member ...]", 1, inf, ver(3, 2, 0),
			"Returns members of a geospatial index as standard geohash strings"),
		def(g, "GEOPOS", "key member [member ...]", 1, inf, ver(3, 2, 0),
			"Returns longitude and latitude of members of a geospatial index"),
		def(g, "GEORADIUS", "key longitude latitude radius m|km|ft|mi [WITHCOORD] [WITHDIST] [WITHHASH] [COUNT count] [ASC|DESC]",
			5, inf, ver(3, 2, 0), "Query a sorted set representing a geospatial index to fetch members matching a given maximum distance from a point",
			validate(FloatAt(1), FloatAt(2), FloatAt(3))),
		def(g, "GEORADIUSBYMEMBER", "key member radius m|km|ft|mi [WITHCOORD] [WITHDIST] [WITHHASH] [COUNT count] [ASC|DESC]",
			4, inf, ver(3, 2, 0), "Query a sorted set representing a geospatial index to fetch members matching a given maximum distance from a member",
			validate(FloatAt(2))),
	)

	x := GroupStream
	add(
		def(x, "XACK", "key group ID [ID ...]", 3, inf, ver(5, 0, 0), "Marks a pending message as correctly processed"),
		def(x, "XADD", "key ID field value [field value ...]", 4, inf, ver(5, 0, 0), "Appends a new entry to a stream",
			validate(EvenFrom(2)), example("XADD mystream * name Sara surname OConnor")),
		def(x, "XCLAIM", "key group consumer min-idle-time ID [ID ...]", 5, inf, ver(5, 0, 0),
			"Changes (or acquires) ownership of a message in a consumer group", validate(IntegerAt(3))),
		def(x, "XDEL", "key ID [ID ...]", 2, inf, ver(5, 0, 0), "Removes the specified entries from the stream"),
		def(x, "XGROUP CREATE", "key groupname ID|$ [MKSTREAM]", 3, 1, ver(5, 0, 0), "Create a consumer group",
			validate(OneOf(3, "MKSTREAM"))),
		def(x, "XGROUP DESTROY", "key groupname", 2, 0, ver(5, 0, 0), "Destroy a consumer group"),
		def(x, "XGROUP SETID", "key groupname ID|$", 3, 0, ver(5, 0, 0), "Set the last delivered ID of a consumer group"),
		def(x, "XGROUP DELCONSUMER", "key groupname consumername", 3, 0, ver(5, 0, 0), "Remove a consumer from a consumer group"),
		def(x, "XINFO STREAM", "key [FULL]", 1, 1, ver(5, 0, 0), "Get information about a stream"),
		def(x, "XINFO GROUPS", "key", 1, 0, ver(5, 0, 0), "List the consumer groups of a stream"),
		def(x, "XINFO CONSUMERS", "key groupname", 2, 0, ver(5, 0, 0), "List the consumers of a consumer group"),
		def(x, "XLEN", "key", 1, 0, ver(5, 0, 0), "Return the number of entries in a stream"),
		def(x, "XPENDING", "key group [start end count] [consumer]", 2, 4, ver(5, 0, 0),
			"Return information and entries from a stream consumer group pending entries list"),
		def(x, "XRANGE", "key start end [COUNT count]", 3, 2, ver(5, 0, 0),
			"Return a range of elements in a stream, with IDs matching the specified IDs interval",
			validate(OneOf(3, "COUNT"), IntegerAt(4)), example("XRANGE mystream - +")),
		def(x, "XREAD", "[COUNT count] [BLOCK milliseconds] STREAMS key [key ...] ID [ID ...]", 3, inf, ver(5, 0, 0),
			"Return never seen elements in multiple streams, with IDs greater than the ones reported by the caller for each stream"),
		def(x, "XREADGROUP", "GROUP group consumer [COUNT count] [BLOCK milliseconds] [NOACK] STREAMS key [key ...] ID [ID ...]",
			6, inf, ver(5, 0, 0), "Return new entries from a stream using a consumer group, or access the history of the pending entries",
			validate(OneOf(0, "GROUP"))),
		def(x, "XREVRANGE", "key end start [COUNT count]", 3, 2, ver(5, 0, 0),
			"Return a range of elements in a stream, with IDs matching the specified IDs interval, in reverse order",
			validate(OneOf(3, "COUNT"), IntegerAt(4))),
		def(x, "XTRIM", "key MAXLEN [~] count", 3, 1, ver(5, 0, 0), "Trims the stream to (approximately if '~' is passed) a certain size",
			validate(OneOf(1, "MAXLEN"))),
		def(x, "XFASTOSET", "key ID field value [field value ...]", 4, inf, UndefinedVersion,
			"Replace a stream with the given entry, keeping its time to live",
			extended, handler(streamReplace), validate(EvenFrom(2))),
	)

	srv := GroupServer
	add(
		def(srv, "BGREWRITEAOF", "", 0, 0, ver(1, 0, 0), "Asynchronously rewrite the append-only file"),
		def(srv, "BGSAVE", "[SCHEDULE]", 0, 1, ver(1, 0, 0), "Asynchronously save the dataset to disk", validate(OneOf(0, "SCHEDULE"))),
		def(srv, "CLIENT GETNAME", "", 0, 0, ver(2, 6, 9), "Get the current connection name"),
		def(srv, "CLIENT ID", "", 0, 0, ver(5, 0, 0), "Returns the client ID for the current connection"),
		def(srv, "CLIENT KILL", "[ip:port] [ID client-id] [TYPE normal|master|slave|pubsub] [ADDR ip:port] [SKIPME yes/no]",
			1, inf, ver(2, 4, 0), "Kill the connection of a client"),
		def(srv, "CLIENT LIST", "[TYPE normal|master|replica|pubsub]", 0, 2, ver(2, 4, 0), "Get the list of client connections"),
		def(srv, "CLIENT PAUSE", "timeout", 1, 0, ver(2, 9, 50), "Stop processing commands from clients for some time",
			validate(IntegerAt(0))),
		def(srv, "CLIENT REPLY", "ON|OFF|SKIP", 1, 0, ver(3, 2, 0), "Instruct the server whether to reply to commands",
			validate(OneOf(0, "ON", "OFF", "SKIP"))),
		def(srv, "CLIENT SETNAME", "connection-name", 1, 0, ver(2, 6, 9), "Set the current connection name",
			validate(NotEmptyAt(0))),
		def(srv, "CLIENT UNBLOCK", "client-id [TIMEOUT|ERROR]", 1, 1, ver(5, 0, 0),
			"Unblock a client blocked in a blocking command from a different connection",
			validate(IntegerAt(0), OneOf(1, "TIMEOUT", "ERROR"))),
		def(srv, "COMMAND", "", 0, 0, ver(2, 8, 13), "Get array of Redis command details"),
		def(srv, "COMMAND COUNT", "", 0, 0, ver(2, 8, 13), "Get total number of Redis commands"),
		def(srv, "COMMAND GETKEYS", "command [arg ...]", 1, inf, ver(2, 8, 13), "Extract keys given a full Redis command"),
		def(srv, "COMMAND INFO", "command-name [command-name ...]", 1, inf, ver(2, 8, 13), "Get array of specific Redis command details"),
		def(srv, "CONFIG GET", "parameter", 1, 0, ver(2, 0, 0), "Get the value of a configuration parameter"),
		def(srv, "CONFIG RESETSTAT", "", 0, 0, ver(2, 0, 0), "Reset the stats returned by INFO"),
		def(srv, "CONFIG REWRITE", "", 0, 0, ver(2, 8, 0), "Rewrite the configuration file with the in memory configuration"),
		def(srv, "CONFIG SET", "parameter value", 2, 0, ver(2, 0, 0), "Set a configuration parameter to the given value"),
		def(srv, "DBSIZE", "", 0, 0, ver(1, 0, 0), "Return the number of keys in the selected database"),
		def(srv, "DEBUG OBJECT", "key", 1, 0, ver(1, 0, 0), "Get debugging information about a key"),
		def(srv, "DEBUG SEGFAULT", "", 0, 0, ver(1, 0, 0), "Make the server crash"),
		def(srv, "FLUSHALL", "[ASYNC]", 0, 1, ver(1, 0, 0), "Remove all keys from all databases", validate(OneOf(0, "ASYNC"))),
		def(srv, "FLUSHDB", "[ASYNC]", 0, 1, ver(1, 0, 0), "Remove all keys from the current database", validate(OneOf(0, "ASYNC"))),
		def(srv, "INFO", "[section]", 0, 1, ver(1, 0, 0), "Get information and statistics about the server", example("INFO memory")),
		def(srv, "LASTSAVE", "", 0, 0, ver(1, 0, 0), "Get the UNIX time stamp of the last successful save to disk"),
		def(srv, "MEMORY DOCTOR", "", 0, 0, ver(4, 0, 0), "Outputs memory problems report"),
		def(srv, "MEMORY STATS", "", 0, 0, ver(4, 0, 0), "Show memory usage details"),
		def(srv, "MEMORY USAGE", "key [SAMPLES count]", 1, 2, ver(4, 0, 0), "Estimate the memory usage of a key",
			validate(OneOf(1, "SAMPLES"), IntegerAt(2))),
		def(srv, "MONITOR", "", 0, 0, ver(1, 0, 0), "Listen for all requests received by the server in real time"),
		def(srv, "ROLE", "", 0, 0, ver(2, 8, 12), "Return the role of the instance in the context of replication"),
		def(srv, "SAVE", "", 0, 0, ver(1, 0, 0), "Synchronously save the dataset to disk"),
		def(srv, "SHUTDOWN", "[NOSAVE|SAVE]", 0, 1, ver(1, 0, 0), "Synchronously save the dataset to disk and then shut down the server",
			validate(OneOf(0, "NOSAVE", "SAVE"))),
		def(srv, "SLAVEOF", "host port", 2, 0, ver(1, 0, 0), "Make the server a replica of another instance, or promote it as master"),
		def(srv, "REPLICAOF", "host port", 2, 0, ver(5, 0, 0), "Make the server a replica of another instance, or promote it as master"),
		def(srv, "SLOWLOG GET", "[count]", 0, 1, ver(2, 2, 12), "Get the slow log entries", validate(IntegerAt(0))),
		def(srv, "SLOWLOG LEN", "", 0, 0, ver(2, 2, 12), "Get the length of the slow log"),
		def(srv, "SLOWLOG RESET", "", 0, 0, ver(2, 2, 12), "Reset the slow log"),
		def(srv, "SWAPDB", "index1 index2", 2, 0, ver(4, 0, 0), "Swaps two Redis databases", validate(IntegerAt(0), IntegerAt(1))),
		def(srv, "SYNC", "", 0, 0, ver(1, 0, 0), "Internal command used for replication"),
		def(srv, "TIME", "", 0, 0, ver(2, 6, 0), "Return the current server time"),
	)

	c := GroupConnection
	add(
		def(c, "AUTH", "[username] password", 1, 1, ver(1, 0, 0), "Authenticate to the server"),
		def(c, "ECHO", "message", 1, 0, ver(1, 0, 0), "Echo the given string"),
		def(c, "HELLO", "[protover [AUTH username password] [SETNAME clientname]]", 0, inf, ver(6, 0, 0),
			"Switch Redis protocol", validate(IntegerAt(0))),
		def(c, "PING", "[message]", 0, 1, ver(1, 0, 0), "Ping the server"),
		def(c, "QUIT", "", 0, 0, ver(1, 0, 0), "Close the connection"),
		def(c, "SELECT", "index", 1, 0, ver(1, 0, 0), "Change the selected database for the current connection",
			handler(selectHandler), validate(IntegerAt(0)), example("SELECT 1")),
	)

	tx := GroupTransactions
	add(
		def(tx, "DISCARD", "", 0, 0, ver(2, 0, 0), "Discard all commands issued after MULTI"),
		def(tx, "EXEC", "", 0, 0, ver(1, 2, 0), "Execute all commands issued after MULTI"),
		def(tx, "MULTI", "", 0, 0, ver(1, 2, 0), "Mark the start of a transaction block"),
		def(tx, "UNWATCH", "", 0, 0, ver(2, 2, 0), "Forget about all watched keys"),
		def(tx, "WATCH", "key [key ...]", 1, inf, ver(2, 2, 0), "Watch the given keys to determine execution of the MULTI/EXEC block"),
	)

	cl := GroupCluster
	add(
		def(cl, "CLUSTER ADDSLOTS", "slot [slot ...]", 1, inf, ver(3, 0, 0), "Assign new hash slots to receiving node"),
		def(cl, "CLUSTER COUNTKEYSINSLOT", "slot", 1, 0, ver(3, 0, 0), "Return the number of local keys in the specified hash slot",
			validate(IntegerAt(0))),
		def(cl, "CLUSTER DELSLOTS", "slot [slot ...]", 1, inf, ver(3, 0, 0), "Set hash slots as unbound in receiving node"),
		def(cl, "CLUSTER FAILOVER", "[FORCE|TAKEOVER]", 0, 1, ver(3, 0, 0),
			"Forces a replica to perform a manual failover of its master", validate(OneOf(0, "FORCE", "TAKEOVER"))),
		def(cl, "CLUSTER FORGET", "node-id", 1, 0, ver(3, 0, 0), "Remove a node from the nodes table"),
		def(cl, "CLUSTER GETKEYSINSLOT", "slot count", 2, 0, ver(3, 0, 0), "Return local key names in the specified hash slot",
			validate(IntegerAt(0), IntegerAt(1))),
		def(cl, "CLUSTER INFO", "", 0, 0, ver(3, 0, 0), "Provides info about Redis Cluster node state"),
		def(cl, "CLUSTER KEYSLOT", "key", 1, 0, ver(3, 0, 0), "Returns the hash slot of the specified key"),
		def(cl, "CLUSTER MEET", "ip port", 2, 0, ver(3, 0, 0), "Force a node cluster to handshake with another node",
			validate(IntegerAt(1))),
		def(cl, "CLUSTER NODES", "", 0, 0, ver(3, 0, 0), "Get Cluster config for the node"),
		def(cl, "CLUSTER REPLICATE", "node-id", 1, 0, ver(3, 0, 0), "Reconfigure a node as a replica of the specified master node"),
		def(cl, "CLUSTER RESET", "[HARD|SOFT]", 0, 1, ver(3, 0, 0), "Reset a Redis Cluster node", validate(OneOf(0, "HARD", "SOFT"))),
		def(cl, "CLUSTER SAVECONFIG", "", 0, 0, ver(3, 0, 0), "Forces the node to save cluster state on disk"),
		def(cl, "CLUSTER SETSLOT", "slot IMPORTING|MIGRATING|STABLE|NODE [node-id]", 2, 1, ver(3, 0, 0),
			"Bind a hash slot to a specific node", validate(IntegerAt(0), OneOf(1, "IMPORTING", "MIGRATING", "STABLE", "NODE"))),
		def(cl, "CLUSTER SLAVES", "node-id", 1, 0, ver(3, 0, 0), "List replica nodes of the specified master node"),
		def(cl, "CLUSTER SLOTS", "", 0, 0, ver(3, 0, 0), "Get array of Cluster slot to node mappings"),
		def(cl, "READONLY", "", 0, 0, ver(3, 0, 0), "Enables read queries for a connection to a cluster replica node"),
		def(cl, "READWRITE", "", 0, 0, ver(3, 0, 0), "Disables read queries for a connection to a cluster replica node"),
	)

	sn := GroupSentinel
	add(
		def(sn, "SENTINEL MASTERS", "", 0, 0, ver(2, 8, 4), "Show a list of monitored masters and their state"),
		def(sn, "SENTINEL MASTER", "master-name", 1, 0, ver(2, 8, 4), "Show the state and info of the specified master"),
		def(sn, "SENTINEL SLAVES", "master-name", 1, 0, ver(2, 8, 4), "Show a list of replicas for this master, and their state"),
		def(sn, "SENTINEL SENTINELS", "master-name", 1, 0, ver(2, 8, 4), "Show a list of sentinel instances for this master"),
		def(sn, "SENTINEL GET-MASTER-ADDR-BY-NAME", "master-name", 1, 0, ver(2, 8, 4),
			"Return the ip and port number of the master with that name"),
		def(sn, "SENTINEL RESET", "pattern", 1, 0, ver(2, 8, 4), "Reset all the masters with matching name"),
		def(sn, "SENTINEL FAILOVER", "master-name", 1, 0, ver(2, 8, 4), "Force a failover as if the master was not reachable"),
		def(sn, "SENTINEL CKQUORUM", "master-name", 1, 0, ver(2, 8, 4),
			"Check if the current Sentinel configuration is able to reach the quorum needed to failover a master"),
		def(sn, "SENTINEL FLUSHCONFIG", "", 0, 0, ver(2, 8, 4), "Force Sentinel to rewrite its configuration on disk"),
		def(sn, "SENTINEL MONITOR", "name ip port quorum", 4, 0, ver(2, 8, 4), "Start Sentinel's monitoring of a new master",
			validate(IntegerAt(2), IntegerAt(3))),
		def(sn, "SENTINEL REMOVE", "name", 1, 0, ver(2, 8, 4), "Remove the specified master"),
		def(sn, "SENTINEL SET", "name option value [option value ...]", 3, inf, ver(2, 8, 4),
			"Change configuration parameters of a specific master", validate(EvenFrom(1))),
	)

	ps := GroupPubSub
	add(
		def(ps, "PSUBSCRIBE", "pattern [pattern ...]", 1, inf, ver(2, 0, 0), "Listen for messages published to channels matching the given patterns"),
		def(ps, "PUBLISH", "channel message", 2, 0, ver(2, 0, 0), "Post a message to a channel"),
		def(ps, "PUBSUB CHANNELS", "[pattern]", 0, 1, ver(2, 8, 0), "Lists the currently active channels"),
		def(ps, "PUBSUB NUMSUB", "[channel-1 ... channel-N]", 0, inf, ver(2, 8, 0), "Returns the number of subscribers for the specified channels"),
		def(ps, "PUBSUB NUMPAT", "", 0, 0, ver(2, 8, 0), "Returns the number of subscriptions to patterns"),
		def(ps, "PUNSUBSCRIBE", "[pattern [pattern ...]]", 0, inf, ver(2, 0, 0), "Stop listening for messages posted to channels matching the given patterns"),
		def(ps, "SUBSCRIBE", "channel [channel ...]", 1, inf, ver(2, 0, 0), "Listen for messages published to the given channels"),
		def(ps, "UNSUBSCRIBE", "[channel [channel ...]]", 0, inf, ver(2, 0, 0), "Stop listening for messages posted to the given channels"),
	)

	sc := GroupScripting
	add(
		def(sc, "EVAL", "script numkeys key [key ...] arg [arg ...]", 2, inf, ver(2, 6, 0), "Execute a Lua script server side",
			validate(IntegerAt(1)), example("EVAL \"return redis.call('get', KEYS[1])\" 1 mykey")),
		def(sc, "EVALSHA", "sha1 numkeys key [key ...] arg [arg ...]", 2, inf, ver(2, 6, 0), "Execute a Lua script server side",
			validate(IntegerAt(1))),
		def(sc, "SCRIPT DEBUG", "YES|SYNC|NO", 1, 0, ver(3, 2, 0), "Set the debug mode for executed scripts",
			validate(OneOf(0, "YES", "SYNC", "NO"))),
		def(sc, "SCRIPT EXISTS", "sha1 [sha1 ...]", 1, inf, ver(2, 6, 0), "Check existence of scripts in the script cache"),
		def(sc, "SCRIPT FLUSH", "", 0, 0, ver(2, 6, 0), "Remove all the scripts from the script cache"),
		def(sc, "SCRIPT KILL", "", 0, 0, ver(2, 6, 0), "Kill the script currently in execution"),
		def(sc, "SCRIPT LOAD", "script", 1, 0, ver(2, 6, 0), "Load the specified Lua script into the script cache"),
	)

	m := GroupModules
	add(
		def(m, "MODULE LIST", "", 0, 0, ver(4, 0, 0), "List all modules loaded by the server"),
		def(m, "MODULE LOAD", "path [arg [arg ...]]", 1, inf, ver(4, 0, 0), "Load a module", validate(NotEmptyAt(0))),
		def(m, "MODULE UNLOAD", "name", 1, 0, ver(4, 0, 0), "Unload a module", validate(NotEmptyAt(0))),
	)

	j := GroupJSON
	add(
		def(j, "JSON.ARRAPPEND", "key path json [json ...]", 3, inf, ver(1, 0, 0), "Append the json value(s) into the array at path",
			validate(JSONAt(2))),
		def(j, "JSON.ARRINDEX", "key path json-scalar [start [stop]]", 3, 2, ver(1, 0, 0),
			"Search for the first occurrence of a JSON scalar in an array", validate(IntegerAt(3), IntegerAt(4))),
		def(j, "JSON.ARRINSERT", "key path index json [json ...]", 4, inf, ver(1, 0, 0),
			"Insert the json value(s) into the array at path before the index", validate(IntegerAt(2), JSONAt(3))),
		def(j, "JSON.ARRLEN", "key [path]", 1, 1, ver(1, 0, 0), "Report the length of the JSON Array at path in key"),
		def(j, "JSON.ARRPOP", "key [path [index]]", 1, 2, ver(1, 0, 0), "Remove and return element from the index in the array",
			validate(IntegerAt(2))),
		def(j, "JSON.ARRTRIM", "key path start stop", 4, 0, ver(1, 0, 0), "Trim an array so that it contains only the specified inclusive range of elements",
			validate(IntegerAt(2), IntegerAt(3))),
		def(j, "JSON.DEBUG", "subcommand & arguments", 1, inf, ver(1, 0, 0), "Report information"),
		def(j, "JSON.DEL", "key [path]", 1, 1, ver(1, 0, 0), "Delete a value", example("JSON.DEL doc .")),
		def(j, "JSON.FORGET", "key [path]", 1, 1, ver(1, 0, 0), "Alias for JSON.DEL"),
		def(j, "JSON.GET", "key [INDENT indentation-string] [NEWLINE line-break-string] [SPACE space-string] [NOESCAPE] [path ...]",
			1, inf, ver(1, 0, 0), "Return the value at path in JSON serialized form", example("JSON.GET doc .")),
		def(j, "JSON.MGET", "key [key ...] path", 2, inf, ver(1, 0, 0), "Returns the values at path from multiple keys"),
		def(j, "JSON.NUMINCRBY", "key path number", 3, 0, ver(1, 0, 0), "Increments the number value stored at path by number",
			validate(FloatAt(2))),
		def(j, "JSON.NUMMULTBY", "key path number", 3, 0, ver(1, 0, 0), "Multiplies the number value stored at path by number",
			validate(FloatAt(2))),
		def(j, "JSON.OBJKEYS", "key [path]", 1, 1, ver(1, 0, 0), "Return the keys in the object that's referenced by path"),
		def(j, "JSON.OBJLEN", "key [path]", 1, 1, ver(1, 0, 0), "Report the number of keys in the JSON Object at path in key"),
		def(j, "JSON.RESP", "key [path]", 1, 1, ver(1, 0, 0), "Return the JSON in key in Redis Serialization Protocol"),
		def(j, "JSON.SET", "key path json [NX|XX]", 3, 1, ver(1, 0, 0), "Sets the JSON value at path in key",
			validate(JSONAt(2), OneOf(3, "NX", "XX")), example("JSON.SET doc . '{\"a\":1}'")),
		def(j, "JSON.STRAPPEND", "key [path] json-string", 2, 1, ver(1, 0, 0), "Append the json-string value(s) the string at path"),
		def(j, "JSON.STRLEN", "key [path]", 1, 1, ver(1, 0, 0), "Report the length of the JSON String at path in key"),
		def(j, "JSON.TYPE", "key [path]", 1, 1, ver(1, 0, 0), "Report the type of JSON value at path"),
	)

	th := GroupThrottle
	add(
		def(th, "CL.THROTTLE", "key max_burst count_per_period period [quantity]", 4, 1, ver(1, 0, 0),
			"Rate limit an action with the generic cell rate algorithm",
			validate(IntegerAt(1), IntegerAt(2), IntegerAt(3), IntegerAt(4)), example("CL.THROTTLE user123 15 30 60 1")),
	)

	gr := GroupGraph
	add(
		def(gr, "GRAPH.QUERY", "graph query [--compact]", 2, 1, ver(1, 0, 0), "Executes the given query against a specified graph",
			validate(NotEmptyAt(1), OneOf(2, "--compact"))),
		def(gr, "GRAPH.RO_QUERY", "graph query [--compact]", 2, 1, ver(2, 2, 8), "Executes a given read only query against a specified graph",
			validate(NotEmptyAt(1), OneOf(2, "--compact"))),
		def(gr, "GRAPH.PROFILE", "graph query", 2, 0, ver(2, 0, 0), "Executes a query and produces an execution plan augmented with metrics"),
		def(gr, "GRAPH.EXPLAIN", "graph query", 2, 0, ver(1, 0, 0), "Constructs a query execution plan but does not run it"),
		def(gr, "GRAPH.DELETE", "graph", 1, 0, ver(1, 0, 0), "Completely removes the graph and all of its entities"),
		def(gr, "GRAPH.SLOWLOG", "graph", 1, 0, ver(2, 0, 12), "Returns a list containing up to 10 of the slowest queries"),
		def(gr, "GRAPH.LIST", "", 0, 0, ver(2, 4, 3), "Lists all graph keys in the keyspace"),
	)
	return cmds
}
