package locale

import (
	"fmt"
	"strings"
)

// Message keys used by the page templates and metadata builders.
const (
	MsgSiteTagline     = "site.tagline"
	MsgToday           = "page.today"
	MsgWeek            = "page.week"
	MsgDate            = "page.date"
	MsgCountry         = "page.country"
	MsgCity            = "page.city"
	MsgCategory        = "page.category"
	MsgSearch          = "page.search"
	MsgSearchHint      = "page.search.hint"
	MsgNearby          = "page.nearby"
	MsgNotFound        = "page.not_found"
	MsgUpstreamFailure = "page.upstream_failure"
	MsgNoEvents        = "events.empty"
	MsgRestOfWorld     = "country.rest_of_world"
)

var dictionary = map[string]map[string]string{
	LangKorean: {
		MsgSiteTagline:     "지금 가장 뜨거운 이벤트를 만나보세요",
		MsgToday:           "오늘의 이벤트",
		MsgWeek:            "이번 주 이벤트",
		MsgDate:            "%s 이벤트",
		MsgCountry:         "%s의 이벤트",
		MsgCity:            "%s에서 열리는 이벤트",
		MsgCategory:        "%s 이벤트",
		MsgSearch:          "'%s' 검색 결과",
		MsgSearchHint:      "이벤트 검색",
		MsgNearby:          "내 주변 이벤트",
		MsgNotFound:        "페이지를 찾을 수 없습니다",
		MsgUpstreamFailure: "이벤트 정보를 불러오지 못했습니다",
		MsgNoEvents:        "표시할 이벤트가 없습니다",
		MsgRestOfWorld:     "전 세계",
	},
	LangEnglish: {
		MsgSiteTagline:     "Discover the hottest events right now",
		MsgToday:           "Today's events",
		MsgWeek:            "This week's events",
		MsgDate:            "Events on %s",
		MsgCountry:         "Events in %s",
		MsgCity:            "Events in %s",
		MsgCategory:        "%s events",
		MsgSearch:          "Results for '%s'",
		MsgSearchHint:      "Search events",
		MsgNearby:          "Events near you",
		MsgNotFound:        "Page not found",
		MsgUpstreamFailure: "Could not load events",
		MsgNoEvents:        "No events to show",
		MsgRestOfWorld:     "Worldwide",
	},
	LangChineseSimplified: {
		MsgSiteTagline:     "发现当下最热门的活动",
		MsgToday:           "今日活动",
		MsgWeek:            "本周活动",
		MsgDate:            "%s 的活动",
		MsgCountry:         "%s 的活动",
		MsgCity:            "%s 的活动",
		MsgCategory:        "%s 活动",
		MsgSearch:          "“%s” 的搜索结果",
		MsgSearchHint:      "搜索活动",
		MsgNearby:          "附近的活动",
		MsgNotFound:        "页面不存在",
		MsgUpstreamFailure: "活动信息加载失败",
		MsgNoEvents:        "暂无活动",
		MsgRestOfWorld:     "全球",
	},
	LangChineseTraditional: {
		MsgSiteTagline:     "探索當下最熱門的活動",
		MsgToday:           "今日活動",
		MsgWeek:            "本週活動",
		MsgDate:            "%s 的活動",
		MsgCountry:         "%s 的活動",
		MsgCity:            "%s 的活動",
		MsgCategory:        "%s 活動",
		MsgSearch:          "「%s」的搜尋結果",
		MsgSearchHint:      "搜尋活動",
		MsgNearby:          "附近的活動",
		MsgNotFound:        "找不到頁面",
		MsgUpstreamFailure: "無法載入活動資訊",
		MsgNoEvents:        "目前沒有活動",
		MsgRestOfWorld:     "全球",
	},
	"ja": {
		MsgSiteTagline:     "今いちばん熱いイベントを見つけよう",
		MsgToday:           "今日のイベント",
		MsgWeek:            "今週のイベント",
		MsgDate:            "%sのイベント",
		MsgCountry:         "%sのイベント",
		MsgCity:            "%sのイベント",
		MsgCategory:        "%sのイベント",
		MsgSearch:          "「%s」の検索結果",
		MsgSearchHint:      "イベントを検索",
		MsgNearby:          "近くのイベント",
		MsgNotFound:        "ページが見つかりません",
		MsgUpstreamFailure: "イベント情報を読み込めませんでした",
		MsgNoEvents:        "イベントはありません",
		MsgRestOfWorld:     "世界",
	},
	"id": {
		MsgSiteTagline:     "Temukan acara terpanas saat ini",
		MsgToday:           "Acara hari ini",
		MsgWeek:            "Acara minggu ini",
		MsgDate:            "Acara pada %s",
		MsgCountry:         "Acara di %s",
		MsgCity:            "Acara di %s",
		MsgCategory:        "Acara %s",
		MsgSearch:          "Hasil untuk '%s'",
		MsgSearchHint:      "Cari acara",
		MsgNearby:          "Acara di dekat Anda",
		MsgNotFound:        "Halaman tidak ditemukan",
		MsgUpstreamFailure: "Gagal memuat acara",
		MsgNoEvents:        "Tidak ada acara",
		MsgRestOfWorld:     "Seluruh dunia",
	},
	"vi": {
		MsgSiteTagline:     "Khám phá những sự kiện hot nhất hiện nay",
		MsgToday:           "Sự kiện hôm nay",
		MsgWeek:            "Sự kiện tuần này",
		MsgDate:            "Sự kiện ngày %s",
		MsgCountry:         "Sự kiện tại %s",
		MsgCity:            "Sự kiện tại %s",
		MsgCategory:        "Sự kiện %s",
		MsgSearch:          "Kết quả cho '%s'",
		MsgSearchHint:      "Tìm sự kiện",
		MsgNearby:          "Sự kiện gần bạn",
		MsgNotFound:        "Không tìm thấy trang",
		MsgUpstreamFailure: "Không thể tải sự kiện",
		MsgNoEvents:        "Không có sự kiện nào",
		MsgRestOfWorld:     "Toàn thế giới",
	},
	"th": {
		MsgSiteTagline:     "ค้นพบอีเวนต์ที่กำลังมาแรงที่สุด",
		MsgToday:           "อีเวนต์วันนี้",
		MsgWeek:            "อีเวนต์สัปดาห์นี้",
		MsgDate:            "อีเวนต์วันที่ %s",
		MsgCountry:         "อีเวนต์ใน %s",
		MsgCity:            "อีเวนต์ใน %s",
		MsgCategory:        "อีเวนต์ %s",
		MsgSearch:          "ผลการค้นหา '%s'",
		MsgSearchHint:      "ค้นหาอีเวนต์",
		MsgNearby:          "อีเวนต์ใกล้คุณ",
		MsgNotFound:        "ไม่พบหน้านี้",
		MsgUpstreamFailure: "ไม่สามารถโหลดอีเวนต์ได้",
		MsgNoEvents:        "ไม่มีอีเวนต์",
		MsgRestOfWorld:     "ทั่วโลก",
	},
}

// T returns the message for key in langCode, falling back to Korean and then English.
func T(langCode, key string) string {
	lang := strings.ToLower(strings.TrimSpace(langCode))
	for _, candidate := range []string{lang, LangKorean, LangEnglish} {
		if messages, ok := dictionary[candidate]; ok {
			if msg, ok := messages[key]; ok && msg != "" {
				return msg
			}
		}
	}
	return key
}

// Tf formats the message for key with args.
func Tf(langCode, key string, args ...any) string {
	return fmt.Sprintf(T(langCode, key), args...)
}

// HasDictionary reports whether langCode has its own translations.
func HasDictionary(langCode string) bool {
	_, ok := dictionary[strings.ToLower(strings.TrimSpace(langCode))]
	return ok
}

// Pick returns the text matching the request language, defaulting to the first non-empty one.
func Pick(langCode string, byLang map[string]string, fallbacks ...string) string {
	if text := strings.TrimSpace(byLang[strings.ToLower(strings.TrimSpace(langCode))]); text != "" {
		return text
	}
	for _, fallback := range fallbacks {
		if text := strings.TrimSpace(fallback); text != "" {
			return text
		}
	}
	return ""
}
