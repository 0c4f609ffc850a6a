package discovery

import "strings"

// SlotCount is the number of hash slots of a redis cluster
const SlotCount = 16384

// crc16 table of the XMODEM variant, polynomial 0x1021
var crc16Table = func() (table [256]uint16) {
	for i := range table {
		crc := uint16(i) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
		table[i] = crc
	}
	return
}()

func crc16(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc = crc<<8 ^ crc16Table[byte(crc>>8)^b]
	}
	return crc
}

// GetPartitionKey extracts the hashtag of key.
// Only the first {...} counts, and an empty tag means the whole key.
func GetPartitionKey(key string) string {
	beg := strings.IndexByte(key, '{')
	if beg == -1 {
		return key
	}
	end := strings.IndexByte(key[beg+1:], '}')
	if end <= 0 {
		return key
	}
	return key[beg+1 : beg+1+end]
}

// KeySlot returns the hash slot of key
func KeySlot(key string) uint16 {
	return crc16([]byte(GetPartitionKey(key))) % SlotCount
}
