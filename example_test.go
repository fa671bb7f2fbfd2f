package protoscan

import (
	"fmt"

	"github.com/anirudhraja/protoscan/fieldpath"
	"github.com/anirudhraja/protoscan/wire"
)

func ExampleReader_GetString() {
	data := wire.NewEncoder().
		VarintField(1, 3).
		StringField(2, "hey").
		StringField(2, "there").
		Bytes()

	r := NewReader(data)
	first, _ := r.GetString(2, 1)
	second, _ := r.GetString(2, 2)
	_, ok := r.GetString(2, 3)
	fmt.Println(first, second, ok)
	// Output: hey there false
}

func ExampleReader_ReadPath() {
	data := wire.NewEncoder().
		MessageField(11, func(e *wire.Encoder) {
			e.MessageField(5, func(e *wire.Encoder) {
				e.BytesField(1, []byte("secret"))
			})
		}).
		Bytes()

	r := NewReader(data)
	key, ok := r.ReadPath(fieldpath.MustParse("11.5.1"))
	fmt.Println(string(key), ok)
	// Output: secret true
}
