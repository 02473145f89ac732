package tui

type infoPage struct {
	title string
	body  string
}

var infoPages = []infoPage{
	{
		title: "Magic gen2 tags",
		body: `Gen2 ("direct write" or "CUID") magic tags behave like normal
MIFARE Classic tags, except that block 0 of sector 0 can be written
with an ordinary write command. No backdoor commands are needed.

Block 0 holds the UID, so writing it changes the UID the tag
reports. Gen1 magic tags and genuine tags refuse the write.

Some gen2 tags are bricked by a block 0 with a wrong checksum (BCC).
The BCC of 4-byte UIDs is calculated for you.`,
	},
	{
		title: "Rest of block 0",
		body: `Block 0 is 16 bytes: the UID, then manufacturer data.

For 4-byte UIDs the UID is followed by the BCC (XOR of the UID
bytes) and the first 11 bytes of this field, usually SAK, ATQA and
manufacturer data.

For 7- and 10-byte UIDs the UID is followed by the last 9 or 6
bytes of this field.

The default was taken from a genuine MIFARE Classic 1K tag. Most
access control systems only check the UID, so it rarely matters.`,
	},
	{
		title: "Key for block 0",
		body: `Writing block 0 needs a key with write permission for sector 0.
Blank magic tags usually ship with FFFFFFFFFFFF as key A and key B.

Choose key B (ctrl+b) if the access conditions of sector 0 only
allow writes with key B. A wrong key is reported as an
authentication failure and nothing is written.`,
	},
}
