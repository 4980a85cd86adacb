package domain

import "encoding/json"

// Document представляет произвольный JSON-объект, полученный от сервера лаунчера
// или из офлайн-файла. Схема не фиксирована, проверка формы выполняется в месте использования.
type Document map[string]any

// RSS возвращает URL RSS-ленты из конфигурации, если поле rss задано непустой строкой.
func (d Document) RSS() string {
	if d == nil {
		return ""
	}
	rss, ok := d["rss"].(string)
	if !ok {
		return ""
	}
	return rss
}

// Instance представляет профиль (сборку) лаунчера из списка /files.
// Содержит поля исходного объекта и дополнительное поле name с ключом записи.
type Instance map[string]any

// Name возвращает имя инстанса.
func (i Instance) Name() string {
	name, _ := i["name"].(string)
	return name
}

// NewsItem представляет отдельную новость, собранную из элемента <item> RSS-ленты.
type NewsItem struct {
	Title       string `json:"title"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	PublishDate string `json:"publish_date"`
}

// Source обозначает источник, из которого получены данные.
type Source string

const (
	SourceRSS     Source = "rss"
	SourceOnline  Source = "online"
	SourceOffline Source = "offline"
)

// News представляет результат получения новостей.
// Либо Items (ветка RSS), либо Raw - JSON-документ news.json, передаваемый без изменений.
type News struct {
	Source Source
	Items  []NewsItem
	Raw    json.RawMessage
}

// MarshalJSON сериализует новости в тот вид, в котором они были получены.
func (n News) MarshalJSON() ([]byte, error) {
	if n.Raw != nil {
		return n.Raw, nil
	}
	if n.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(n.Items)
}

// HTTPResponse содержит результат HTTP-запроса: статус, заголовок Content-Type и тело.
type HTTPResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
