package catalog

var topicsBySubject = map[string][]string{
	"Matematik":     {"Temel Kavramlar", "Sayı Basamakları", "Bölme Bölünebilme", "EBOB-EKOK", "Rasyonel Sayılar", "Basit Eşitsizlikler", "Mutlak Değer", "Üslü Sayılar", "Köklü Sayılar", "Çarpanlara Ayırma", "Oran Orantı", "Denklem Çözme", "Problemler", "Kümeler", "Fonksiyonlar", "Polinomlar", "2. Dereceden Denklemler", "Parabol", "Trigonometri", "Logaritma", "Diziler", "Limit", "Türev", "İntegral"},
	"Türkçe":        {"Sözcükte Anlam", "Cümlede Anlam", "Paragraf", "Ses Bilgisi", "Yazım Kuralları", "Noktalama İşaretleri", "Sözcükte Yapı", "İsimler", "Sıfatlar", "Zamirler", "Zarflar", "Edat-Bağlaç-Ünlem", "Fiiller", "Fiilimsiler", "Cümlenin Ögeleri", "Cümle Türleri", "Anlatım Bozuklukları"},
	"Fizik":         {"Fizik Bilimine Giriş", "Madde ve Özellikleri", "Kuvvet ve Hareket", "İş, Güç, Enerji", "Isı ve Sıcaklık", "Basınç", "Kaldırma Kuvveti", "Elektrik", "Manyetisma", "Optik", "Dalgalar", "Çembersel Hareket", "Basit Harmonik Hareket"},
	"Kimya":         {"Kimya Bilimi", "Atom ve Periyodik Sistem", "Kimyasal Türler Arası Etkileşimler", "Maddenin Halleri", "Doğa ve Kimya", "Kimya Kanunları", "Karışımlar", "Asitler, Bazlar ve Tuzlar", "Kimya Her Yerde", "Modern Atom Teorisi", "Gazlar", "Sıvı Çözeltiler", "Kimyasal Tepkimelerde Enerji", "Kimyasal Tepkimelerde Hız", "Kimyasal Denge", "Elektrokimya", "Organik Kimya"},
	"Biyoloji":      {"Yaşam Bilimi Biyoloji", "Hücre", "Canlılar Dünyası", "Hücre Bölünmeleri", "Kalıtım", "Ekosistem Ekolojisi", "İnsan Fizyolojisi", "Bitki Biyolojisi", "Canlılar ve Çevre"},
	"Edebiyat":      {"Giriş", "Hikaye", "Şiir", "Makale", "Sohbet", "Fıkra", "Eleştiri", "Mülakat", "Röportaj", "Tiyatro", "Roman", "Masal/Fabl", "Mektup/Günlük", "Gezi Yazısı", "Biyografi/Otobiyografi", "Halk Edebiyatı", "Divan Edebiyatı", "Tanzimat Edebiyatı", "Servet-i Fünun", "Milli Edebiyat", "Cumhuriyet Dönemi"},
	"Tarih":         {"Tarih ve Zaman", "İnsanlığın İlk Dönemleri", "Orta Çağda Dünya", "İlk ve Orta Çağlarda Türk Dünyası", "İslam Medeniyetinin Doğuşu", "Türklerin İslamiyeti Kabulü"},
	"Tarih-1":       {"Tarih Bilimine Giriş", "İlk Uygarlıklar", "İlk Türk Devletleri", "İslam Tarihi", "Türk İslam Tarihi", "Osmanlı Kuruluş", "Osmanlı Yükselme"},
	"Coğrafya":      {"Doğa ve İnsan", "Dünyanın Şekli ve Hareketleri", "Coğrafi Konum", "Harita Bilgisi", "Atmosfer ve İklim", "İç Kuvvetler", "Dış Kuvvetler"},
	"Coğrafya-1":    {"Ekosistem", "Biyoçeşitlilik", "Nüfus Politikaları", "Yerleşme", "Ekonomik Faaliyetler", "Doğal Kaynaklar"},
	"Felsefe":       {"Felsefenin Alanı", "Bilgi Felsefesi", "Bilim Felsefesi", "Varlık Felsefesi", "Ahlak Felsefesi", "Siyaset Felsefesi", "Sanat Felsefesi", "Din Felsefesi"},
	"Din Kültürü":   {"Bilgi ve İnanç", "Din ve İslam", "İslam ve İbadet", "Gençlik ve Değerler", "Gönül Coğrafyamız"},
	"Tarih-2":       {"Beylikten Devlete", "Dünya Gücü Osmanlı", "Arayış Yılları", "Değişim ve Diplomasi", "En Uzun Yüzyıl"},
	"Coğrafya-2":    {"Türkiye Coğrafyası", "Ulaşım", "Ticaret", "Turizm", "Bölgeler"},
	"Felsefe Grubu": {"Psikoloji", "Sosyoloji", "Mantık"},
	"Yabancı Dil":   {"Grammar", "Vocabulary", "Reading Skills", "Translation"},
}

// TopicsFor returns the topic list of a canonical subject name.
func TopicsFor(name string) []string {
	topics := topicsBySubject[name]
	out := make([]string, len(topics))
	copy(out, topics)
	return out
}
