package inspect

// Request represents an image inspection request
type Request struct {
	ImagePath string
}

// Response represents what was found in an image
type Response struct {
	Path       string            `json:"path" yaml:"path"`
	Size       int64             `json:"size" yaml:"size"`
	Table      string            `json:"table" yaml:"table"`
	Signature  string            `json:"signature" yaml:"signature"`
	GPT        *GPTInfo          `json:"gpt,omitempty" yaml:"gpt,omitempty"`
	Partitions []PartitionResult `json:"partitions" yaml:"partitions"`
	Valid      bool              `json:"valid" yaml:"valid"`
	Problems   []string          `json:"problems,omitempty" yaml:"problems,omitempty"`
}

// GPTInfo holds the header fields of a GPT image
type GPTInfo struct {
	DiskGUID       string `json:"disk_guid" yaml:"disk_guid"`
	PrimaryLBA     uint64 `json:"primary_lba" yaml:"primary_lba"`
	BackupLBA      uint64 `json:"backup_lba" yaml:"backup_lba"`
	FirstUsableLBA uint64 `json:"first_usable_lba" yaml:"first_usable_lba"`
	LastUsableLBA  uint64 `json:"last_usable_lba" yaml:"last_usable_lba"`
	HeaderCRC      string `json:"header_crc" yaml:"header_crc"`
	EntriesCRC     string `json:"entries_crc" yaml:"entries_crc"`
}

// PartitionResult is one used table entry
type PartitionResult struct {
	Slot        int    `json:"slot" yaml:"slot"`
	FirstSector uint64 `json:"first_sector" yaml:"first_sector"`
	LastSector  uint64 `json:"last_sector" yaml:"last_sector"`
	Start       uint64 `json:"start" yaml:"start"`
	Size        uint64 `json:"size" yaml:"size"`
	Type        string `json:"type" yaml:"type"`
	Active      bool   `json:"active,omitempty" yaml:"active,omitempty"`
	StartCHS    string `json:"start_chs,omitempty" yaml:"start_chs,omitempty"`
	EndCHS      string `json:"end_chs,omitempty" yaml:"end_chs,omitempty"`
	GUID        string `json:"guid,omitempty" yaml:"guid,omitempty"`
}
