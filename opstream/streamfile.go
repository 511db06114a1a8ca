package opstream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "SMOPS001"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次：
//   int64   Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OpKind (0=Lookup,1=Insert,2=Delete)
//   int64   Key

var (
	streamMagic   = [8]byte{'S', 'M', 'O', 'P', 'S', '0', '0', '1'}
	streamVersion = uint16(1)
)

const (
	streamHeaderSize = 16 // magic + version + reserved + dist count
	distRecordSize   = 16 // int64 key + float64 weight
	opRecordSize     = 9  // uint8 kind + int64 key
)

// ErrBadStreamFile 檔案開頭不是合法的 stream 檔
var ErrBadStreamFile = errors.New("opstream: not a valid stream file")

// Stream 一份已載入的操作序列與其 key 分布
type Stream struct {
	Dist map[int64]float64
	Ops  []Op
}

// ToSequenceModel 以載入的操作建立重播模型
func (s *Stream) ToSequenceModel() *SequenceModel {
	return NewSequenceModel(s.Ops)
}

// WriteStreamFile 由 generator 產生 k 筆操作寫入檔案。
// 規則：
//   - key 第一次出現時輸出 Insert
//   - 已存在的 key 依 deleteRatio 機率輸出 Delete，其餘輸出 Lookup
//   - 被刪除的 key 再次抽中時重新 Insert
func WriteStreamFile(filename string, gen Generator, k int, deleteRatio float64, seed int64) error {
	if gen == nil {
		return errors.New("opstream: nil generator")
	}
	if k < 0 {
		return fmt.Errorf("opstream: invalid op count %d", k)
	}
	if deleteRatio < 0 || deleteRatio > 1 {
		return fmt.Errorf("opstream: deleteRatio %v must be in [0, 1]", deleteRatio)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(streamMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, streamVersion); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, uint16(0)); err != nil { // reserved
		return err
	}

	// 分布表依 key 升冪輸出，確保可重現
	dist := gen.KeyMap()
	keys := make([]int64, 0, len(dist))
	for key := range dist {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	if err := binary.Write(file, binary.LittleEndian, uint32(len(keys))); err != nil {
		return err
	}
	for _, key := range keys {
		if err := binary.Write(file, binary.LittleEndian, key); err != nil {
			return err
		}
		if err := binary.Write(file, binary.LittleEndian, dist[key]); err != nil {
			return err
		}
	}

	if err := binary.Write(file, binary.LittleEndian, uint64(k)); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	present := make(map[int64]bool, len(keys))

	for i := 0; i < k; i++ {
		key := gen.Next()
		var kind OpKind
		if !present[key] {
			kind = OpInsert
			present[key] = true
		} else if rng.Float64() < deleteRatio {
			kind = OpDelete
			present[key] = false
		} else {
			kind = OpLookup
		}

		if err := binary.Write(file, binary.LittleEndian, uint8(kind)); err != nil {
			return err
		}
		if err := binary.Write(file, binary.LittleEndian, key); err != nil {
			return err
		}
	}
	return nil
}

// readLE 讀取單一欄位，截斷或讀取失敗一律以 ErrBadStreamFile 呈現
func readLE(r io.Reader, v any) error {
	if err := binary.Read(r, binary.LittleEndian, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadStreamFile, err)
	}
	return nil
}

// ReadStreamFile 載入 stream 檔。
// 檔頭宣告的記錄數量先與實際檔案大小核對，再據以配置，
// 竄改或截斷的檔案回傳 ErrBadStreamFile 而非 panic。
func ReadStreamFile(filename string) (*Stream, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()

	var magic [8]byte
	if _, err := io.ReadFull(file, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadStreamFile, err)
	}
	if magic != streamMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadStreamFile, magic[:])
	}

	var version, reserved uint16
	if err := readLE(file, &version); err != nil {
		return nil, err
	}
	if version != streamVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadStreamFile, version)
	}
	if err := readLE(file, &reserved); err != nil {
		return nil, err
	}

	var distCount uint32
	if err := readLE(file, &distCount); err != nil {
		return nil, err
	}
	if int64(distCount) > (size-streamHeaderSize)/distRecordSize {
		return nil, fmt.Errorf("%w: dist count %d exceeds file size %d", ErrBadStreamFile, distCount, size)
	}
	dist := make(map[int64]float64, distCount)
	for i := uint32(0); i < distCount; i++ {
		var key int64
		var weight float64
		if err := readLE(file, &key); err != nil {
			return nil, err
		}
		if err := readLE(file, &weight); err != nil {
			return nil, err
		}
		dist[key] = weight
	}

	var opCount uint64
	if err := readLE(file, &opCount); err != nil {
		return nil, err
	}
	opBytes := size - streamHeaderSize - int64(distCount)*distRecordSize - 8
	if opBytes < 0 || opCount > uint64(opBytes)/opRecordSize {
		return nil, fmt.Errorf("%w: op count %d exceeds file size %d", ErrBadStreamFile, opCount, size)
	}
	ops := make([]Op, 0, opCount)
	for i := uint64(0); i < opCount; i++ {
		var kind uint8
		var key int64
		if err := readLE(file, &kind); err != nil {
			return nil, err
		}
		if err := readLE(file, &key); err != nil {
			return nil, err
		}
		if kind > uint8(OpDelete) {
			return nil, fmt.Errorf("%w: unknown op kind %d at index %d", ErrBadStreamFile, kind, i)
		}
		ops = append(ops, Op{Kind: OpKind(kind), Key: key})
	}

	return &Stream{Dist: dist, Ops: ops}, nil
}
